package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/config"
	logpkg "github.com/velosearch/velosearch/internal/logger"
	"github.com/velosearch/velosearch/internal/transport/httpapi"
	"github.com/velosearch/velosearch/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cmdEnv is the loaded per-invocation environment shared by subcommands.
type cmdEnv struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	env := &cmdEnv{}

	root := &cobra.Command{
		Use:           "velosearch",
		Short:         "Semantic vector search over a bike catalog",
		Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; variables referenced by the config
			// file come from the process environment
			_ = godotenv.Load()

			name := config.GetEnv()
			cfg, err := config.Load(name)
			if err != nil {
				return err
			}

			logger, err := logpkg.NewLogger(name, cfg.Logging.Level)
			if err != nil {
				return err
			}

			env.cfg = cfg
			env.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.logger != nil {
				_ = env.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCmd(env),
		newIngestCmd(env),
		newSearchCmd(env),
		newStatusCmd(env),
		newFlushCmd(env),
	)
	return root
}

func newServeCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer a.close()

			outcome, err := a.index.Ensure(ctx)
			if err != nil {
				return fmt.Errorf("ensure index: %w", err)
			}
			env.logger.Info("index ready", zap.String("outcome", string(outcome)))

			server := httpapi.NewServer(
				a.query, a.index, a.attach, a.health,
				env.cfg.Search.DefaultPerPage, env.cfg.Search.MaxPerPage,
				env.logger,
			)

			addr := fmt.Sprintf(":%d", env.cfg.HTTP.Port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      server.Router(env.cfg.Auth.APIKeys),
				ReadTimeout:  time.Duration(env.cfg.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout: time.Duration(env.cfg.HTTP.WriteTimeoutSec) * time.Second,
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				env.logger.Info("starting HTTP server",
					zap.String("addr", addr),
					zap.String("version", version.Version))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-quit:
				env.logger.Info("received shutdown signal")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(env.cfg.HTTP.ShutdownSec)*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			env.logger.Info("server stopped gracefully")
			return nil
		},
	}
}

func newIngestCmd(env *cmdEnv) *cobra.Command {
	var skipEmbed bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the catalog, build the index and attach embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.ingest.Ingest(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("ingested %d records (%d new, %d already present)\n",
				res.Total, res.Written, res.Skipped)

			// Documents and embeddings are still usable if index
			// creation fails; the index can be ensured on serve.
			outcome, err := a.index.Ensure(ctx)
			if err != nil {
				env.logger.Warn("index not ensured, continuing", zap.Error(err))
			} else {
				cmd.Printf("index %s\n", outcome)
			}

			if skipEmbed {
				return nil
			}

			attached, err := a.attach.Attach(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("attached embeddings to %d of %d documents\n",
				attached.Attached, attached.Documents)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipEmbed, "skip-embed", false, "skip embedding attachment")
	return cmd
}

func newSearchCmd(env *cmdEnv) *cobra.Command {
	var topK int
	var filter string

	cmd := &cobra.Command{
		Use:   "search <query> [query...]",
		Short: "Run semantic searches and print the result table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer a.close()

			table, err := a.query.Search(ctx, queryRequest(args, topK, filter))
			if err != nil {
				return err
			}

			cmd.Print(table.Markdown())
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "matches per query (0 uses the configured default)")
	cmd.Flags().StringVar(&filter, "filter", "", "search filter expression")
	return cmd
}

func newStatusCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the index health summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer a.close()

			st, err := a.index.Describe(ctx)
			if err != nil {
				return err
			}
			cmd.Println(st.String())
			return nil
		},
	}
}

func newFlushCmd(env *cmdEnv) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Destroy all stored documents and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("flush destroys all data; re-run with --yes to confirm")
			}

			ctx := cmd.Context()

			a, err := buildApp(ctx, env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.admin.Flush(ctx); err != nil {
				return err
			}
			cmd.Println("database flushed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the flush")
	return cmd
}
