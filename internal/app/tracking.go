package app

import "holo-museum-guide/internal/domain"

// Tracking holds the artifact whose marker the camera currently sees.
// key and markerID are always both set or both empty.
type Tracking struct {
	registry *Registry
	key      string
	markerID string
}

func NewTracking(registry *Registry) *Tracking {
	return &Tracking{registry: registry}
}

// Found makes the artifact owning markerID the active one.
// Unknown markers are ignored and report false.
func (t *Tracking) Found(markerID string) (domain.Artifact, bool) {
	artifact, ok := t.registry.ByMarker(markerID)
	if !ok {
		return domain.Artifact{}, false
	}
	t.key = artifact.Key
	t.markerID = artifact.MarkerID
	return artifact, true
}

// Lost clears tracking, but only when markerID is the marker being tracked.
func (t *Tracking) Lost(markerID string) bool {
	if t.markerID == "" || t.markerID != markerID {
		return false
	}
	t.key = ""
	t.markerID = ""
	return true
}

// Active returns the tracked artifact, if any.
func (t *Tracking) Active() (domain.Artifact, bool) {
	if t.key == "" {
		return domain.Artifact{}, false
	}
	return t.registry.Get(t.key)
}

// MarkerID is the tracked marker, or "" when nothing is tracked.
func (t *Tracking) MarkerID() string {
	return t.markerID
}
