package gemini

import (
	"errors"
	"strings"
)

var (
	// ErrNoImage is returned when the model answered with text only.
	ErrNoImage = errors.New("gemini: model returned no image")
	// ErrEmptyResponse is returned when the model produced no candidates.
	ErrEmptyResponse = errors.New("gemini: empty response from model")
)

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// TransientError indicates an error expected to resolve if retried after a
// delay (upstream overload, rate limiting, quota exhaustion).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

func NewTransientError(err error) error {
	return &TransientError{Err: err}
}

// Transient reports whether err should be retried. Typed classifications
// win; for unclassified errors it falls back to sniffing the message for
// rate-limit and overload indicators, which is all the API surface offers
// at this boundary.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var pe *PermanentError
	if errors.As(err, &pe) {
		return false
	}
	return transientText(err.Error())
}

var transientTokens = []string{"503", "429", "rate", "quota", "overload", "unavailable"}

func transientText(msg string) bool {
	msg = strings.ToLower(msg)
	for _, tok := range transientTokens {
		if strings.Contains(msg, tok) {
			return true
		}
	}
	return false
}

// classify wraps a raw API error with a typed classification so callers
// can decide on retries with errors.As instead of re-sniffing text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if transientText(err.Error()) {
		return NewTransientError(err)
	}
	return err
}
