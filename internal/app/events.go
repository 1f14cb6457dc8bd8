package app

import (
	"time"

	"holo-museum-guide/internal/domain"
)

// Action is a discrete user request from the page or a voice command.
type Action string

const (
	ActionStart           Action = "start"
	ActionStartQuiz       Action = "startQuiz"
	ActionSelectOption    Action = "selectOption"
	ActionExitQuiz        Action = "exitQuiz"
	ActionToggleRotation  Action = "toggleRotation"
	ActionToggle360       Action = "toggle360"
	ActionToggleWireframe Action = "toggleWireframe"
	ActionResetView       Action = "resetView"
	ActionInfo            Action = "info"
	ActionSnapshot        Action = "snapshot"
	ActionShowHotspot     Action = "showHotspot"
)

var knownActions = map[Action]struct{}{
	ActionStart: {}, ActionStartQuiz: {}, ActionSelectOption: {}, ActionExitQuiz: {},
	ActionToggleRotation: {}, ActionToggle360: {}, ActionToggleWireframe: {},
	ActionResetView: {}, ActionInfo: {}, ActionSnapshot: {}, ActionShowHotspot: {},
}

// ParseAction validates a wire action name.
func ParseAction(name string) (Action, bool) {
	a := Action(name)
	_, ok := knownActions[a]
	return a, ok
}

// Event is anything the session loop handles. The set is closed.
type Event interface {
	isEvent()
}

// MarkerFound is emitted by the tracking engine when a marker comes into view.
type MarkerFound struct {
	MarkerID string
}

// MarkerLost is emitted by the tracking engine when a marker leaves view.
type MarkerLost struct {
	MarkerID string
}

// PoseUpdate carries the latest world positions from the tracking engine.
type PoseUpdate struct {
	Camera  *domain.Vec3
	Markers map[string]domain.Vec3
}

// UserAction is a button press or a mapped voice command.
type UserAction struct {
	Action Action
	Option string
	Title  string
	Text   string
}

// Transcript is a recognised speech string.
type Transcript struct {
	Text string
}

// SnapshotSaved confirms a capture was written out.
type SnapshotSaved struct {
	FileName string
}

// Tick is one proximity sampling period.
type Tick struct {
	At time.Time
}

type quizExpired struct{ generation uint64 }

type hotspotExpired struct{ generation uint64 }

type voiceFeedbackExpired struct{ generation uint64 }

func (MarkerFound) isEvent()          {}
func (MarkerLost) isEvent()           {}
func (PoseUpdate) isEvent()           {}
func (UserAction) isEvent()           {}
func (Transcript) isEvent()           {}
func (SnapshotSaved) isEvent()        {}
func (Tick) isEvent()                 {}
func (quizExpired) isEvent()          {}
func (hotspotExpired) isEvent()       {}
func (voiceFeedbackExpired) isEvent() {}
