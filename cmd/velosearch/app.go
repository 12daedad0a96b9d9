package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/velosearch/velosearch/internal/catalog"
	"github.com/velosearch/velosearch/internal/config"
	dbRedis "github.com/velosearch/velosearch/internal/db/redis"
	"github.com/velosearch/velosearch/internal/domain"
	"github.com/velosearch/velosearch/internal/metrics"
	catalogrepo "github.com/velosearch/velosearch/internal/repository/catalog"
	"github.com/velosearch/velosearch/internal/repository/embcache"
	indexrepo "github.com/velosearch/velosearch/internal/repository/index"
	searchrepo "github.com/velosearch/velosearch/internal/repository/search"
	openaiEmb "github.com/velosearch/velosearch/internal/transport/openai"
	adminuc "github.com/velosearch/velosearch/internal/usecase/admin"
	attachuc "github.com/velosearch/velosearch/internal/usecase/attach"
	healthuc "github.com/velosearch/velosearch/internal/usecase/health"
	indexuc "github.com/velosearch/velosearch/internal/usecase/index"
	ingestuc "github.com/velosearch/velosearch/internal/usecase/ingest"
	queryuc "github.com/velosearch/velosearch/internal/usecase/query"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *dbRedis.Store

	ingest *ingestuc.Service
	attach *attachuc.Service
	index  *indexuc.Service
	query  *queryuc.Service
	health *healthuc.Service
	admin  *adminuc.Service
}

// buildApp loads config, connects to the store and wires every service.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.Register()

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Embedding.CacheTTLSec > 0 {
		embedder = embcache.New(
			base, store, cfg.Embedding.Model,
			time.Duration(cfg.Embedding.CacheTTLSec)*time.Second, logger,
		)
	}

	loader := catalog.NewLoader(cfg.Catalog.URL, time.Duration(cfg.Catalog.FetchTimeoutSec)*time.Second)

	catRepo := catalogrepo.New(store, cfg.Index.KeyPrefix)
	idxRepo := indexrepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
	srchRepo := searchrepo.New(store, cfg.Index.Name)

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ingest: ingestuc.NewService(loader, catRepo, cfg.Index.KeyPrefix, logger),
		attach: attachuc.NewService(catRepo, idxRepo, embedder, logger),
		index:  indexuc.NewService(idxRepo, embedder, logger),
		query:  queryuc.NewService(embedder, srchRepo, cfg.Search.DefaultTopK, logger),
		health: healthuc.NewService(store, base, 5*time.Second),
		admin:  adminuc.NewService(store, logger),
	}, nil
}

func (a *app) close() {
	a.store.Close()
}

func queryRequest(queries []string, topK int, filter string) queryuc.Request {
	return queryuc.Request{Queries: queries, TopK: topK, Filter: filter}
}
