package gemini

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransientTypedClassification(t *testing.T) {
	require.True(t, Transient(NewTransientError(errors.New("anything"))))
	require.False(t, Transient(NewPermanentError(errors.New("429 rate limited"))),
		"typed permanent wins over message sniffing")
	require.False(t, Transient(nil))
}

func TestTransientHeuristic(t *testing.T) {
	for _, msg := range []string{
		"googleapi: Error 503: The service is currently unavailable",
		"Resource has been exhausted (e.g. check quota)",
		"429 Too Many Requests",
		"rate limit exceeded",
		"model is overloaded",
	} {
		require.True(t, Transient(errors.New(msg)), msg)
	}
	for _, msg := range []string{
		"invalid argument: unsupported image format",
		"permission denied",
		"content blocked by safety settings",
	} {
		require.False(t, Transient(errors.New(msg)), msg)
	}
}

func TestTransientUnwrapsWrappedErrors(t *testing.T) {
	inner := NewTransientError(errors.New("quota"))
	wrapped := fmt.Errorf("generate image: %w", inner)
	require.True(t, Transient(wrapped))
}

func TestClassifyWrapsTransientText(t *testing.T) {
	err := classify(errors.New("503 unavailable"))
	var te *TransientError
	require.ErrorAs(t, err, &te)

	err = classify(errors.New("invalid input"))
	require.False(t, Transient(err))
	require.NoError(t, classify(nil))
}
