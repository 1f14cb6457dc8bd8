package app

import (
	"time"

	"go.uber.org/zap"

	"holo-museum-guide/internal/domain"
)

const (
	// ProximityInterval is how often the viewer distance is re-sampled.
	ProximityInterval = 200 * time.Millisecond

	fullVolumeDistance = 0.3
	falloffRange       = 1.2
	minProximityVolume = 0.1
	maxProximityVolume = 0.5

	trackedTimeConstant = 100 * time.Millisecond
	fadeTimeConstant    = 300 * time.Millisecond

	foundVolume      = 0.3
	rampTimeConstant = 500 * time.Millisecond
)

// PositionSource supplies world positions reported by the tracking engine.
type PositionSource interface {
	CameraPosition() (domain.Vec3, bool)
	MarkerPosition(markerID string) (domain.Vec3, bool)
}

// GainSink receives master gain targets.
type GainSink interface {
	SetTarget(target float64, timeConstant time.Duration)
}

// TargetVolume maps viewer-to-marker distance to a proximity volume:
// full at 0.3 units, linear falloff over 1.2 units, clamped to [0.1, 0.5].
func TargetVolume(distance float64) float64 {
	v := 1 - (distance-fullVolumeDistance)/falloffRange
	if v < minProximityVolume {
		v = minProximityVolume
	}
	if v > maxProximityVolume {
		v = maxProximityVolume
	}
	return v
}

// Proximity drives the master gain from tracking state and viewer distance.
type Proximity struct {
	tracking  *Tracking
	positions PositionSource
	gain      GainSink
	logger    *zap.Logger
}

func NewProximity(tracking *Tracking, positions PositionSource, gain GainSink, logger *zap.Logger) *Proximity {
	return &Proximity{tracking: tracking, positions: positions, gain: gain, logger: logger}
}

// Tick re-evaluates the gain target. It returns the target it applied, and
// false when poses were missing and the gain was left alone.
func (p *Proximity) Tick() (float64, bool) {
	markerID := p.tracking.MarkerID()
	if markerID == "" {
		p.gain.SetTarget(0, fadeTimeConstant)
		return 0, true
	}

	camera, ok := p.positions.CameraPosition()
	if !ok {
		p.logger.Debug("proximity tick without camera pose")
		return 0, false
	}
	marker, ok := p.positions.MarkerPosition(markerID)
	if !ok {
		p.logger.Debug("proximity tick without marker pose", zap.String("marker", markerID))
		return 0, false
	}

	target := TargetVolume(camera.Distance(marker))
	p.gain.SetTarget(target, trackedTimeConstant)
	return target, true
}

// RampIn starts the music when an artifact is found.
func (p *Proximity) RampIn() {
	p.gain.SetTarget(foundVolume, rampTimeConstant)
}

// RampOut fades the music when the tracked marker is lost.
func (p *Proximity) RampOut() {
	p.gain.SetTarget(0, rampTimeConstant)
}

// PoseStore keeps the latest positions reported by the tracking engine.
// It is only touched from the session loop.
type PoseStore struct {
	camera    domain.Vec3
	hasCamera bool
	markers   map[string]domain.Vec3
}

func NewPoseStore() *PoseStore {
	return &PoseStore{markers: make(map[string]domain.Vec3)}
}

// Update records a pose report. A nil camera keeps the previous camera pose.
func (s *PoseStore) Update(camera *domain.Vec3, markers map[string]domain.Vec3) {
	if camera != nil {
		s.camera = *camera
		s.hasCamera = true
	}
	for id, pos := range markers {
		s.markers[id] = pos
	}
}

func (s *PoseStore) CameraPosition() (domain.Vec3, bool) {
	return s.camera, s.hasCamera
}

func (s *PoseStore) MarkerPosition(markerID string) (domain.Vec3, bool) {
	pos, ok := s.markers[markerID]
	return pos, ok
}

// gainFanout sends every target to all sinks.
type gainFanout []GainSink

func (g gainFanout) SetTarget(target float64, timeConstant time.Duration) {
	for _, sink := range g {
		sink.SetTarget(target, timeConstant)
	}
}
