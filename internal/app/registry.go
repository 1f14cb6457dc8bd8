package app

import "holo-museum-guide/internal/domain"

// Registry is the immutable artifact lookup a session is built on.
type Registry struct {
	artifacts []domain.Artifact
	byKey     map[string]int
	byMarker  map[string]int
}

// NewRegistry validates catalog and indexes it by key and marker.
func NewRegistry(catalog domain.Catalog) (*Registry, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		artifacts: make([]domain.Artifact, len(catalog.Artifacts)),
		byKey:     make(map[string]int, len(catalog.Artifacts)),
		byMarker:  make(map[string]int, len(catalog.Artifacts)),
	}
	copy(r.artifacts, catalog.Artifacts)
	for i, a := range r.artifacts {
		r.byKey[a.Key] = i
		r.byMarker[a.MarkerID] = i
	}
	return r, nil
}

// Get returns the artifact stored under key.
func (r *Registry) Get(key string) (domain.Artifact, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return domain.Artifact{}, false
	}
	return r.artifacts[i], true
}

// ByMarker returns the artifact anchored to markerID.
func (r *Registry) ByMarker(markerID string) (domain.Artifact, bool) {
	i, ok := r.byMarker[markerID]
	if !ok {
		return domain.Artifact{}, false
	}
	return r.artifacts[i], true
}

// All returns the artifacts in catalog order.
func (r *Registry) All() []domain.Artifact {
	out := make([]domain.Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}
