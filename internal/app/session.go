package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"holo-museum-guide/internal/domain"
	"holo-museum-guide/internal/snapshot"
)

const (
	// HotspotDuration is how long a hotspot tooltip stays open.
	HotspotDuration = 5 * time.Second
	// VoiceFeedbackDuration is how long a recognised command is echoed.
	VoiceFeedbackDuration = 3 * time.Second

	eventBuffer = 64
)

// Presenter receives everything the page should display.
type Presenter interface {
	ShowStatus(domain.Status)
	ShowEntity(domain.EntityView)
	ShowQuiz(domain.QuizView)
	ShowHotspot(domain.HotspotView)
	ShowVoiceFeedback(domain.VoiceFeedback)
	RequestCapture(fileName string)
}

// AudioEngine starts the ambient music when the visitor enters.
type AudioEngine interface {
	Start() error
}

// Options tune the timing of a session. Zero values take the defaults.
type Options struct {
	TickInterval    time.Duration
	FeedbackDelay   time.Duration
	HotspotDuration time.Duration
	VoiceEnabled    bool
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = ProximityInterval
	}
	if o.FeedbackDelay <= 0 {
		o.FeedbackDelay = FeedbackDelay
	}
	if o.HotspotDuration <= 0 {
		o.HotspotDuration = HotspotDuration
	}
	return o
}

// Deps are the collaborators a session talks to. Nil members disable the
// matching feature.
type Deps struct {
	Speaker   Speaker
	Presenter Presenter
	Gains     []GainSink
	Audio     AudioEngine
	// Positions overrides the poses reported through PoseUpdate events.
	Positions PositionSource
	Clock     Clock
	Logger    *zap.Logger
}

// Session is one visitor's guide: tracking, proximity audio, quiz and
// narration, driven by a single event loop.
type Session struct {
	id        string
	opts      Options
	clock     Clock
	logger    *zap.Logger
	presenter Presenter
	audio     AudioEngine

	registry  *Registry
	tracking  *Tracking
	poses     *PoseStore
	proximity *Proximity
	quiz      *QuizController
	narrator  *Narrator
	entities  *Entities

	started      bool
	ticker       Ticker
	quizTimer    Timer
	hotspotTimer Timer
	voiceTimer   Timer
	hotspotGen   uint64
	voiceGen     uint64

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wires the controllers for one visitor.
func NewSession(id string, registry *Registry, deps Deps, opts Options) *Session {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Presenter == nil {
		deps.Presenter = nopPresenter{}
	}

	s := &Session{
		id:        id,
		opts:      opts.withDefaults(),
		clock:     deps.Clock,
		logger:    deps.Logger,
		presenter: deps.Presenter,
		audio:     deps.Audio,
		registry:  registry,
		tracking:  NewTracking(registry),
		poses:     NewPoseStore(),
		narrator:  NewNarrator(deps.Speaker),
		events:    make(chan Event, eventBuffer),
		done:      make(chan struct{}),
	}
	var positions PositionSource = s.poses
	if deps.Positions != nil {
		positions = deps.Positions
	}
	s.proximity = NewProximity(s.tracking, positions, gainFanout(deps.Gains), s.logger)
	s.quiz = NewQuizController(s.narrator, s.presenter)
	s.entities = NewEntities(registry, s.presenter)
	return s
}

func (s *Session) ID() string { return s.id }

// Registry is the artifact catalog this session was opened with.
func (s *Session) Registry() *Registry { return s.registry }

// Run processes events and proximity ticks until ctx ends or the session is
// closed. Events already queued when that happens are still handled, in
// order, before Run returns. Timers and the ticker are stopped on return.
func (s *Session) Run(ctx context.Context) error {
	defer s.teardown()
	for {
		var tickC <-chan time.Time
		if s.ticker != nil {
			tickC = s.ticker.C()
		}
		select {
		case <-ctx.Done():
			s.drain()
			return ctx.Err()
		case <-s.done:
			s.drain()
			return nil
		case ev := <-s.events:
			s.Dispatch(ev)
		case at := <-tickC:
			s.Dispatch(Tick{At: at})
		}
	}
}

// drain dispatches whatever was posted before the loop was asked to stop.
func (s *Session) drain() {
	for {
		select {
		case ev := <-s.events:
			s.Dispatch(ev)
		default:
			return
		}
	}
}

// Post queues ev for the loop. Safe from any goroutine.
func (s *Session) Post(ev Event) error {
	select {
	case <-s.done:
		return domain.ErrSessionClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return domain.ErrSessionClosed
	}
}

// Close ends the session. Run returns and later Posts fail.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Dispatch handles one event to completion. Only the loop goroutine, or a
// test driving the session directly, may call it.
func (s *Session) Dispatch(ev Event) {
	switch e := ev.(type) {
	case MarkerFound:
		s.markerFound(e.MarkerID)
	case MarkerLost:
		s.markerLost(e.MarkerID)
	case PoseUpdate:
		s.poses.Update(e.Camera, e.Markers)
	case UserAction:
		s.handleAction(e)
	case Transcript:
		s.handleTranscript(e.Text)
	case SnapshotSaved:
		s.logger.Info("snapshot saved", zap.String("file", e.FileName))
		s.narrator.Speak("Photo saved.")
	case Tick:
		if s.started {
			s.proximity.Tick()
		}
	case quizExpired:
		s.quiz.Expire(e.generation)
	case hotspotExpired:
		if e.generation == s.hotspotGen {
			s.presenter.ShowHotspot(domain.HotspotView{})
		}
	case voiceFeedbackExpired:
		if e.generation == s.voiceGen {
			s.presenter.ShowVoiceFeedback(domain.VoiceFeedback{})
		}
	default:
		s.logger.Warn("unhandled event", zap.Any("event", ev))
	}
}

// QuizState reports the quiz controller's state.
func (s *Session) QuizState() QuizState { return s.quiz.State() }

// Tracked reports the artifact currently tracked.
func (s *Session) Tracked() (domain.Artifact, bool) { return s.tracking.Active() }

// Started reports whether the visitor has entered the experience.
func (s *Session) Started() bool { return s.started }

func (s *Session) markerFound(markerID string) {
	artifact, ok := s.tracking.Found(markerID)
	if !ok {
		s.logger.Debug("ignoring unknown marker", zap.String("marker", markerID))
		return
	}
	s.entities.Show(artifact.EntityID)
	s.presenter.ShowStatus(domain.Status{Tracking: true, Label: "Tracking Locked", Name: artifact.Name})
	if s.started {
		s.proximity.RampIn()
	}
	s.logger.Debug("marker found", zap.String("marker", markerID), zap.String("artifact", artifact.Key))
}

func (s *Session) markerLost(markerID string) {
	if !s.tracking.Lost(markerID) {
		return
	}
	s.presenter.ShowStatus(domain.Status{Tracking: false, Label: "Scanning..."})
	s.hideHotspot()
	if s.started {
		s.proximity.RampOut()
	}
	s.logger.Debug("marker lost", zap.String("marker", markerID))
}

func (s *Session) handleAction(a UserAction) {
	switch a.Action {
	case ActionStart:
		s.start()
	case ActionStartQuiz:
		artifact, tracked := s.tracking.Active()
		if err := s.quiz.Start(artifact, tracked); err != nil {
			s.logger.Debug("quiz not started", zap.Error(err))
		}
	case ActionSelectOption:
		_, generation, err := s.quiz.Select(a.Option)
		if err != nil {
			s.logger.Debug("quiz selection ignored", zap.Error(err))
			return
		}
		s.quizTimer = s.reschedule(s.quizTimer, s.opts.FeedbackDelay, quizExpired{generation: generation})
	case ActionExitQuiz:
		s.quiz.Exit()
	case ActionToggleRotation:
		s.entities.ToggleSpin()
	case ActionToggle360:
		enabled, ok := s.entities.Toggle360()
		switch {
		case !ok:
			s.narrator.Speak(noArtifactNotice)
		case enabled:
			s.narrator.Speak("360 view enabled.")
		default:
			s.narrator.Speak("360 view disabled.")
		}
	case ActionToggleWireframe:
		s.entities.ToggleWireframe()
	case ActionResetView:
		s.entities.Reset()
	case ActionInfo:
		artifact, ok := s.tracking.Active()
		if !ok {
			s.narrator.Speak(noArtifactNotice)
			return
		}
		s.narrator.Speak(artifact.Description)
	case ActionSnapshot:
		s.narrator.Speak("SMILE!")
		s.presenter.RequestCapture(snapshot.FileName(s.clock.Now()))
	case ActionShowHotspot:
		s.showHotspot(a.Title, a.Text)
	default:
		s.logger.Warn("unknown action", zap.String("action", string(a.Action)))
	}
}

func (s *Session) start() {
	if s.started {
		return
	}
	s.started = true
	s.narrator.Speak("Welcome. Please scan a marker.")
	if s.audio != nil {
		if err := s.audio.Start(); err != nil {
			s.logger.Warn("ambient audio unavailable", zap.Error(err))
		}
	}
	s.ticker = s.clock.NewTicker(s.opts.TickInterval)
}

func (s *Session) showHotspot(title, text string) {
	s.hotspotGen++
	s.presenter.ShowHotspot(domain.HotspotView{Visible: true, Title: title, Text: text})
	s.narrator.Speak(title + ". " + text)
	s.hotspotTimer = s.reschedule(s.hotspotTimer, s.opts.HotspotDuration, hotspotExpired{generation: s.hotspotGen})
}

func (s *Session) hideHotspot() {
	s.hotspotGen++
	if s.hotspotTimer != nil {
		s.hotspotTimer.Stop()
		s.hotspotTimer = nil
	}
	s.presenter.ShowHotspot(domain.HotspotView{})
}

func (s *Session) handleTranscript(text string) {
	if !s.opts.VoiceEnabled {
		return
	}
	action, ok := MatchVoiceCommand(text)
	if !ok {
		s.logger.Debug("no voice command matched", zap.String("transcript", text))
		return
	}
	s.voiceGen++
	s.presenter.ShowVoiceFeedback(domain.VoiceFeedback{Visible: true, Text: text})
	s.voiceTimer = s.reschedule(s.voiceTimer, VoiceFeedbackDuration, voiceFeedbackExpired{generation: s.voiceGen})
	s.handleAction(UserAction{Action: action})
}

func (s *Session) reschedule(prev Timer, d time.Duration, ev Event) Timer {
	if prev != nil {
		prev.Stop()
	}
	return s.clock.AfterFunc(d, func() {
		_ = s.Post(ev)
	})
}

func (s *Session) teardown() {
	s.Close()
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	for _, t := range []Timer{s.quizTimer, s.hotspotTimer, s.voiceTimer} {
		if t != nil {
			t.Stop()
		}
	}
}

type nopPresenter struct{}

func (nopPresenter) ShowStatus(domain.Status)               {}
func (nopPresenter) ShowEntity(domain.EntityView)           {}
func (nopPresenter) ShowQuiz(domain.QuizView)               {}
func (nopPresenter) ShowHotspot(domain.HotspotView)         {}
func (nopPresenter) ShowVoiceFeedback(domain.VoiceFeedback) {}
func (nopPresenter) RequestCapture(string)                  {}
