package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a guide session id is unknown.
	ErrSessionNotFound = errors.New("guide session not found")
	// ErrSessionClosed is returned when posting to a session that has been torn down.
	ErrSessionClosed = errors.New("guide session closed")
	// ErrArtifactNotFound indicates an artifact key is not in the catalog.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrCatalogNotFound indicates the catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidCatalog is returned when catalog content fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrNoArtifactTracked is returned when an action needs a tracked artifact.
	ErrNoArtifactTracked = errors.New("no artifact tracked")
	// ErrQuizNotAsking indicates an answer was selected while no question is open.
	ErrQuizNotAsking = errors.New("quiz is not asking a question")
	// ErrOptionNotFound indicates a selected option is not part of the open question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrAudioUnavailable is returned when the audio device cannot be opened.
	ErrAudioUnavailable = errors.New("audio unavailable")
	// ErrFrameTooLarge is returned when an uploaded image declares more pixels than allowed.
	ErrFrameTooLarge = errors.New("frame too large")
)
