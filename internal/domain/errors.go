package domain

import "errors"

var (
	// ErrInvalidConfiguration is fatal to session start: empty pool or bad game settings.
	ErrInvalidConfiguration = errors.New("invalid game configuration")
	// ErrInvalidStateTransition is returned when an operation is attempted in the wrong phase.
	// State is left untouched.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrCaptureFailure means speech/text capture did not yield a transcript.
	ErrCaptureFailure = errors.New("answer capture failed")
	// ErrPersistenceFailure means a ranking, like or guestbook write did not reach the remote store.
	ErrPersistenceFailure = errors.New("persistence failed")

	// ErrSessionNotFound is returned when a player has no running game session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrCharacterNotFound indicates an unknown character id.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrEntryNotFound indicates an unknown guestbook entry id.
	ErrEntryNotFound = errors.New("guestbook entry not found")
	// ErrInvalidName is returned for empty or oversized player/guest names.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidMessage is returned for empty or oversized guestbook messages.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrNoPullsLeft is returned when the daily fortune budget is spent.
	ErrNoPullsLeft = errors.New("no fortune pulls left today")
	// ErrAudioUnavailable is returned when no audio source could produce a pronunciation.
	ErrAudioUnavailable = errors.New("audio unavailable")
)
