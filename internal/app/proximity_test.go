package app

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"holo-museum-guide/internal/domain"
)

func TestTargetVolume(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 0.5},
		{0.3, 0.5},
		{0.9, 0.5},
		{1.02, 0.4},
		{1.2, 0.25},
		{1.5, 0.1},
		{4, 0.1},
	}
	for _, tc := range cases {
		if got := TargetVolume(tc.distance); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("distance %v: expected %v, got %v", tc.distance, tc.want, got)
		}
	}
}

func TestProximityTickUntrackedFadesOut(t *testing.T) {
	gain := &recordingGain{}
	p := NewProximity(NewTracking(newTestRegistry(t)), NewPoseStore(), gain, zap.NewNop())

	target, ok := p.Tick()
	if !ok || target != 0 {
		t.Fatalf("expected target 0, got %v %v", target, ok)
	}
	if got := gain.last(); got.target != 0 || got.tau != fadeTimeConstant {
		t.Fatalf("expected fade to 0 over %v, got %+v", fadeTimeConstant, got)
	}
}

func TestProximityTickFollowsDistance(t *testing.T) {
	gain := &recordingGain{}
	tracking := NewTracking(newTestRegistry(t))
	poses := NewPoseStore()
	p := NewProximity(tracking, poses, gain, zap.NewNop())

	tracking.Found("marker-lantern")
	if _, ok := p.Tick(); ok {
		t.Fatalf("expected tick without poses to leave gain alone")
	}
	if len(gain.calls) != 0 {
		t.Fatalf("expected no gain change, got %+v", gain.calls)
	}

	poses.Update(vec(0, 0, 0), map[string]domain.Vec3{"marker-lantern": {Z: -1.2}})
	target, ok := p.Tick()
	if !ok || math.Abs(target-0.25) > 1e-9 {
		t.Fatalf("expected 0.25 at distance 1.2, got %v", target)
	}
	if got := gain.last(); got.tau != trackedTimeConstant {
		t.Fatalf("expected tracked time constant, got %v", got.tau)
	}

	// The viewer walks closer while still tracked.
	poses.Update(vec(0, 0, -1), nil)
	target, _ = p.Tick()
	if target != 0.5 {
		t.Fatalf("expected ceiling 0.5 up close, got %v", target)
	}
}

func TestPoseStoreKeepsCameraWhenOmitted(t *testing.T) {
	poses := NewPoseStore()
	if _, ok := poses.CameraPosition(); ok {
		t.Fatalf("expected no camera pose initially")
	}
	poses.Update(vec(1, 2, 3), nil)
	poses.Update(nil, map[string]domain.Vec3{"m": {X: 1}})
	if cam, ok := poses.CameraPosition(); !ok || cam.Y != 2 {
		t.Fatalf("expected camera pose kept, got %+v", cam)
	}
	if _, ok := poses.MarkerPosition("m"); !ok {
		t.Fatalf("expected marker pose")
	}
}
