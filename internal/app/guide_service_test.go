package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/domain"
	"holo-museum-guide/internal/infra/memory"
)

func TestOpenAndCloseSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	service := newTestService(store, "default")

	session, err := service.Open(ctx, app.Deps{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if session.ID() == "" {
		t.Fatalf("expected session id")
	}
	if _, ok := store.Get(session.ID()); !ok {
		t.Fatalf("expected session registered")
	}
	if err := service.Post(session.ID(), app.MarkerFound{MarkerID: "marker-helmet"}); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	service.Close(session.ID())
	if _, ok := store.Get(session.ID()); ok {
		t.Fatalf("expected session removed on close")
	}
	if err := session.Post(app.Tick{}); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected closed session, got %v", err)
	}
	if err := service.Post(session.ID(), app.Tick{}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestOpenRequiresCatalog(t *testing.T) {
	service := newTestService(memory.NewSessionStore(), "missing")

	if _, err := service.Open(context.Background(), app.Deps{}); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}
}

func TestArtifactsListsCatalogOrder(t *testing.T) {
	service := newTestService(memory.NewSessionStore(), "default")

	artifacts, err := service.Artifacts(context.Background())
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}
	if len(artifacts) != 6 || artifacts[0].Key != "helmet" || artifacts[5].Key != "waterbottle" {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}
}

func newTestService(store *memory.SessionStore, catalogID string) *app.GuideService {
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(map[string]domain.Catalog{
		"default": domain.DefaultCatalog(),
	}), 5*time.Minute)
	return app.NewGuideService(store, catalogs, catalogID, app.Options{}, nil)
}
