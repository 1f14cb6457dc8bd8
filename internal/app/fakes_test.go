package app

import (
	"sort"
	"testing"
	"time"

	"holo-museum-guide/internal/domain"
)

type fakeClock struct {
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	t := &fakeTicker{every: d, ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves time forward and fires due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			t.f()
		}
	}
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type fakeTicker struct {
	every   time.Duration
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped = true }

type speechCall struct {
	cancel bool
	text   string
}

type recordingSpeaker struct {
	calls []speechCall
}

func (r *recordingSpeaker) Cancel() { r.calls = append(r.calls, speechCall{cancel: true}) }

func (r *recordingSpeaker) Speak(u domain.Utterance) {
	r.calls = append(r.calls, speechCall{text: u.Text})
}

// spoken returns the utterance texts in order.
func (r *recordingSpeaker) spoken() []string {
	var out []string
	for _, c := range r.calls {
		if !c.cancel {
			out = append(out, c.text)
		}
	}
	return out
}

func (r *recordingSpeaker) last() string {
	spoken := r.spoken()
	if len(spoken) == 0 {
		return ""
	}
	return spoken[len(spoken)-1]
}

type recordingPresenter struct {
	statuses []domain.Status
	entities []domain.EntityView
	quizzes  []domain.QuizView
	hotspots []domain.HotspotView
	voice    []domain.VoiceFeedback
	captures []string
}

func (p *recordingPresenter) ShowStatus(s domain.Status)       { p.statuses = append(p.statuses, s) }
func (p *recordingPresenter) ShowEntity(e domain.EntityView)   { p.entities = append(p.entities, e) }
func (p *recordingPresenter) ShowQuiz(q domain.QuizView)       { p.quizzes = append(p.quizzes, q) }
func (p *recordingPresenter) ShowHotspot(h domain.HotspotView) { p.hotspots = append(p.hotspots, h) }
func (p *recordingPresenter) ShowVoiceFeedback(v domain.VoiceFeedback) {
	p.voice = append(p.voice, v)
}
func (p *recordingPresenter) RequestCapture(name string) { p.captures = append(p.captures, name) }

func (p *recordingPresenter) lastQuiz() domain.QuizView {
	if len(p.quizzes) == 0 {
		return domain.QuizView{}
	}
	return p.quizzes[len(p.quizzes)-1]
}

func (p *recordingPresenter) lastHotspot() domain.HotspotView {
	if len(p.hotspots) == 0 {
		return domain.HotspotView{}
	}
	return p.hotspots[len(p.hotspots)-1]
}

type gainCall struct {
	target float64
	tau    time.Duration
}

type recordingGain struct {
	calls []gainCall
}

func (g *recordingGain) SetTarget(target float64, tau time.Duration) {
	g.calls = append(g.calls, gainCall{target: target, tau: tau})
}

func (g *recordingGain) last() gainCall {
	if len(g.calls) == 0 {
		return gainCall{target: -1}
	}
	return g.calls[len(g.calls)-1]
}

type harness struct {
	session   *Session
	clock     *fakeClock
	speaker   *recordingSpeaker
	presenter *recordingPresenter
	gain      *recordingGain
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	registry, err := NewRegistry(domain.DefaultCatalog())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	h := &harness{
		clock:     newFakeClock(),
		speaker:   &recordingSpeaker{},
		presenter: &recordingPresenter{},
		gain:      &recordingGain{},
	}
	h.session = NewSession("test", registry, Deps{
		Speaker:   h.speaker,
		Presenter: h.presenter,
		Gains:     []GainSink{h.gain},
		Clock:     h.clock,
	}, opts)
	return h
}

// advance moves the fake clock and runs whatever the timers posted.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.drain()
}

func (h *harness) drain() {
	for {
		select {
		case ev := <-h.session.events:
			h.session.Dispatch(ev)
		default:
			return
		}
	}
}

func (h *harness) do(action Action) {
	h.session.Dispatch(UserAction{Action: action})
}

func vec(x, y, z float64) *domain.Vec3 {
	return &domain.Vec3{X: x, Y: y, Z: z}
}
