package app

import "holo-museum-guide/internal/domain"

// Speaker is the speech synthesis collaborator.
type Speaker interface {
	Cancel()
	Speak(domain.Utterance)
}

// Narrator keeps at most one utterance active: every Speak cancels
// whatever is playing or queued before starting the new text.
type Narrator struct {
	speaker Speaker
}

// NewNarrator wraps speaker. A nil speaker silences narration.
func NewNarrator(speaker Speaker) *Narrator {
	return &Narrator{speaker: speaker}
}

func (n *Narrator) Speak(text string) {
	if n.speaker == nil || text == "" {
		return
	}
	n.speaker.Cancel()
	n.speaker.Speak(domain.Utterance{Text: text, Pitch: 1, Rate: 1})
}
