package http

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"holo-museum-guide/internal/domain"
)

func TestArtifactEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/artifacts")
	if err != nil {
		t.Fatalf("get artifacts: %v", err)
	}
	defer resp.Body.Close()
	var artifacts []domain.Artifact
	if err := json.NewDecoder(resp.Body).Decode(&artifacts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(artifacts) != 6 || artifacts[0].MarkerID != "marker-helmet" {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}

	resp2, err := http.Get(server.URL + "/api/artifacts/dragon")
	if err != nil {
		t.Fatalf("get dragon: %v", err)
	}
	defer resp2.Body.Close()
	var dragon domain.Artifact
	if err := json.NewDecoder(resp2.Body).Decode(&dragon); err != nil {
		t.Fatalf("decode dragon: %v", err)
	}
	if dragon.EntityID != "entity-dragon" {
		t.Fatalf("unexpected artifact %+v", dragon)
	}

	resp3, err := http.Get(server.URL + "/api/artifacts/unicorn")
	if err != nil {
		t.Fatalf("get unicorn: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp3.StatusCode)
	}
}

func TestHealthzAndMethods(t *testing.T) {
	server, _ := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected healthz body %q", body)
	}

	resp, err = http.Get(server.URL + "/api/snapshots")
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
