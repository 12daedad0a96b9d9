package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_DecodesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"model": "Jigger", "brand": "Velorim", "price": 270, "type": "Kids bikes", "description": "small and nimble"},
			{"model": "Hillcraft", "brand": "Bicyk", "price": 1200, "type": "Kids Mountain Bikes", "description": "a true mountain bike"}
		]`))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 5*time.Second)
	records, err := loader.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Model != "Jigger" || records[0].Price != 270 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Brand != "Bicyk" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 5*time.Second)
	if _, err := loader.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 5*time.Second)
	if _, err := loader.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(srv.URL, 5*time.Second)
	if _, err := loader.Fetch(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
