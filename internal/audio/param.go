package audio

import (
	"math"
	"sync"
	"time"
)

// Param is a gain value that approaches its target exponentially, the way a
// Web Audio AudioParam behaves under setTargetAtTime.
//
//	v(t) = target + (v0 - target) * exp(-(t - t0) / tau)
type Param struct {
	mu     sync.Mutex
	now    func() time.Time
	start  float64
	target float64
	tau    time.Duration
	since  time.Time
}

// NewParam returns a param resting at initial. A nil clock means time.Now.
func NewParam(initial float64, now func() time.Time) *Param {
	if now == nil {
		now = time.Now
	}
	initial = clamp01(initial)
	return &Param{
		now:    now,
		start:  initial,
		target: initial,
		since:  now(),
	}
}

// SetTarget starts a new approach toward target from the current value.
func (p *Param) SetTarget(target float64, timeConstant time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.start = p.valueAtLocked(now)
	p.target = clamp01(target)
	p.tau = timeConstant
	p.since = now
}

// Value is the current gain.
func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueAtLocked(p.now())
}

// ValueAt is the gain at t, which may lie in the future of the last SetTarget.
func (p *Param) ValueAt(t time.Time) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueAtLocked(t)
}

// Target is the value currently being approached.
func (p *Param) Target() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// TimeConstant is the tau of the current approach.
func (p *Param) TimeConstant() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tau
}

func (p *Param) valueAtLocked(t time.Time) float64 {
	if p.tau <= 0 {
		return p.target
	}
	elapsed := t.Sub(p.since)
	if elapsed <= 0 {
		return p.start
	}
	return p.target + (p.start-p.target)*math.Exp(-elapsed.Seconds()/p.tau.Seconds())
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
