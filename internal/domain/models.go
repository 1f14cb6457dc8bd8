package domain

import (
	"fmt"
	"math"
	"strings"
)

// Quiz is the single multiple-choice question attached to an artifact.
type Quiz struct {
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Options  []string `json:"options" yaml:"options"`
}

// IsCorrect reports whether option contains the authored answer.
// Matching is a case-sensitive substring check so "16th Century" satisfies "16th".
func (q Quiz) IsCorrect(option string) bool {
	return strings.Contains(option, q.Answer)
}

// Artifact is an exhibit piece anchored to a physical marker.
type Artifact struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	EntityID    string `json:"entityId" yaml:"entityId"`
	MarkerID    string `json:"markerId" yaml:"markerId"`
	Quiz        Quiz   `json:"quiz" yaml:"quiz"`
}

// Catalog is the full set of artifacts on display.
type Catalog struct {
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`
}

// Validate checks the catalog for duplicate keys or markers and unanswerable quizzes.
func (c Catalog) Validate() error {
	keys := make(map[string]struct{}, len(c.Artifacts))
	markers := make(map[string]struct{}, len(c.Artifacts))
	for _, a := range c.Artifacts {
		if a.Key == "" || a.MarkerID == "" {
			return fmt.Errorf("%w: artifact %q missing key or marker", ErrInvalidCatalog, a.Name)
		}
		if _, dup := keys[a.Key]; dup {
			return fmt.Errorf("%w: duplicate artifact key %q", ErrInvalidCatalog, a.Key)
		}
		if _, dup := markers[a.MarkerID]; dup {
			return fmt.Errorf("%w: duplicate marker %q", ErrInvalidCatalog, a.MarkerID)
		}
		keys[a.Key] = struct{}{}
		markers[a.MarkerID] = struct{}{}

		if a.Quiz.Question == "" || a.Quiz.Answer == "" {
			return fmt.Errorf("%w: artifact %q has an empty quiz question or answer", ErrInvalidCatalog, a.Key)
		}
		if len(a.Quiz.Options) == 0 {
			return fmt.Errorf("%w: artifact %q has no quiz options", ErrInvalidCatalog, a.Key)
		}
		answerable := false
		for _, opt := range a.Quiz.Options {
			if a.Quiz.IsCorrect(opt) {
				answerable = true
				break
			}
		}
		if !answerable {
			return fmt.Errorf("%w: no option of %q contains answer %q", ErrInvalidCatalog, a.Key, a.Quiz.Answer)
		}
	}
	return nil
}

// Vec3 is a point in tracking-engine world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Utterance is one speech synthesis request.
type Utterance struct {
	Text  string  `json:"text"`
	Pitch float64 `json:"pitch"`
	Rate  float64 `json:"rate"`
}

// Status is the tracking indicator shown on screen.
type Status struct {
	Tracking bool   `json:"tracking"`
	Label    string `json:"label"`
	Name     string `json:"name,omitempty"`
}

// EntityView describes how a single 3D entity should be rendered.
type EntityView struct {
	EntityID  string `json:"entityId"`
	Visible   bool   `json:"visible"`
	Spinning  bool   `json:"spinning"`
	View360   bool   `json:"view360"`
	Wireframe bool   `json:"wireframe"`
}

// QuizChoice is one selectable button of the quiz panel.
type QuizChoice struct {
	Text string `json:"text"`
	Exit bool   `json:"exit,omitempty"`
}

// QuizView is the quiz panel as it should currently be displayed.
type QuizView struct {
	Visible  bool         `json:"visible"`
	Artifact string       `json:"artifact,omitempty"`
	Question string       `json:"question,omitempty"`
	Choices  []QuizChoice `json:"choices,omitempty"`
	Verdict  string       `json:"verdict,omitempty"`
	Correct  bool         `json:"correct,omitempty"`
}

// HotspotView is the tooltip overlay for a point of interest.
type HotspotView struct {
	Visible bool   `json:"visible"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
}

// VoiceFeedback echoes a recognised voice command on screen.
type VoiceFeedback struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}
