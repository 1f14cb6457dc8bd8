package memory

import (
	"testing"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	registry, err := app.NewRegistry(domain.DefaultCatalog())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	store.Put(app.NewSession("s-1", registry, app.Deps{}, app.Options{}))
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}

	store.Delete("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
