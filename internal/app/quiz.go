package app

import (
	"fmt"
	"time"

	"holo-museum-guide/internal/domain"
)

// FeedbackDelay is how long the verdict stays up before the quiz closes.
const FeedbackDelay = 2 * time.Second

const (
	exitChoice       = "⬅ Back to AR"
	noArtifactNotice = "Scan an artifact first."
)

// QuizPhase is the quiz panel's state.
type QuizPhase int

const (
	QuizInactive QuizPhase = iota
	QuizAsking
	QuizFeedback
)

func (p QuizPhase) String() string {
	switch p {
	case QuizAsking:
		return "asking"
	case QuizFeedback:
		return "feedback"
	default:
		return "inactive"
	}
}

// QuizState is the current phase plus the artifact it concerns.
type QuizState struct {
	Phase    QuizPhase
	Artifact string
	Correct  bool
}

// QuizController runs the single-question quiz for the tracked artifact:
// Inactive -> Asking -> Feedback -> Inactive, with exit from Asking.
type QuizController struct {
	narrator  *Narrator
	presenter Presenter

	state      QuizState
	quiz       domain.Quiz
	generation uint64
}

func NewQuizController(narrator *Narrator, presenter Presenter) *QuizController {
	return &QuizController{narrator: narrator, presenter: presenter}
}

// State returns the current quiz state.
func (q *QuizController) State() QuizState {
	return q.state
}

// Start opens the quiz for artifact. Without a tracked artifact it speaks a
// notice and stays where it is.
func (q *QuizController) Start(artifact domain.Artifact, tracked bool) error {
	if !tracked {
		q.narrator.Speak(noArtifactNotice)
		return domain.ErrNoArtifactTracked
	}

	q.generation++
	q.quiz = artifact.Quiz
	q.state = QuizState{Phase: QuizAsking, Artifact: artifact.Key}

	choices := make([]domain.QuizChoice, 0, len(q.quiz.Options)+1)
	for _, opt := range q.quiz.Options {
		choices = append(choices, domain.QuizChoice{Text: opt})
	}
	choices = append(choices, domain.QuizChoice{Text: exitChoice, Exit: true})

	q.presenter.ShowQuiz(domain.QuizView{
		Visible:  true,
		Artifact: artifact.Key,
		Question: q.quiz.Question,
		Choices:  choices,
	})
	q.narrator.Speak("Quiz time. " + q.quiz.Question)
	return nil
}

// Select answers the open question. It returns the generation the feedback
// belongs to so the caller can schedule Expire.
func (q *QuizController) Select(option string) (bool, uint64, error) {
	if q.state.Phase != QuizAsking {
		return false, 0, domain.ErrQuizNotAsking
	}
	if !q.hasOption(option) {
		return false, 0, fmt.Errorf("%w: %q", domain.ErrOptionNotFound, option)
	}

	correct := q.quiz.IsCorrect(option)
	q.state = QuizState{Phase: QuizFeedback, Artifact: q.state.Artifact, Correct: correct}

	view := domain.QuizView{Visible: true, Artifact: q.state.Artifact, Correct: correct}
	if correct {
		view.Verdict = "✓ CORRECT"
		q.presenter.ShowQuiz(view)
		q.narrator.Speak("Correct! Well done.")
	} else {
		view.Verdict = "✗ WRONG"
		q.presenter.ShowQuiz(view)
		q.narrator.Speak("Incorrect. The answer is " + q.quiz.Answer)
	}
	return correct, q.generation, nil
}

// Exit leaves an open question without feedback.
func (q *QuizController) Exit() bool {
	if q.state.Phase != QuizAsking {
		return false
	}
	q.close()
	q.narrator.Speak("Experience resumed.")
	return true
}

// Expire closes the feedback panel of the given generation. Expiries from an
// earlier quiz are ignored.
func (q *QuizController) Expire(generation uint64) bool {
	if q.state.Phase != QuizFeedback || generation != q.generation {
		return false
	}
	q.close()
	return true
}

func (q *QuizController) close() {
	q.state = QuizState{}
	q.quiz = domain.Quiz{}
	q.presenter.ShowQuiz(domain.QuizView{})
}

func (q *QuizController) hasOption(option string) bool {
	for _, opt := range q.quiz.Options {
		if opt == option {
			return true
		}
	}
	return false
}
