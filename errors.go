package asrcore

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by New when the model set is missing its
// encoder, decoder, or joint model.
var ErrNotInitialized = errors.New("asrcore: session not initialized")

// ErrBusy is returned when a caller invokes process, finish, or
// inject_silence while another call on the same session is already running.
var ErrBusy = errors.New("asrcore: session busy")

// InvalidAudioError wraps a NaN sample or wrong-chunk-length failure
// reaching the mel featurizer. It is non-recoverable for the offending
// chunk; the caller is expected to Reset before continuing.
type InvalidAudioError struct {
	Reason string
	Err    error
}

func (e *InvalidAudioError) Error() string {
	return fmt.Sprintf("asrcore: invalid audio: %s: %v", e.Reason, e.Err)
}

func (e *InvalidAudioError) Unwrap() error { return e.Err }

// InferenceFailedError wraps a failure from the encoder, decoder, or joint
// model. The session's caches are guaranteed unchanged when this is
// returned, so the failed chunk's buffer region is retained and the caller
// may retry after remediating the model.
type InferenceFailedError struct {
	Stage string // "encoder" or "decoder" (joint-model failures report "decoder")
	Err   error
}

func (e *InferenceFailedError) Error() string {
	return fmt.Sprintf("asrcore: inference failed at %s: %v", e.Stage, e.Err)
}

func (e *InferenceFailedError) Unwrap() error { return e.Err }

// TokenizerFailedError wraps a vocab-decoding failure, raised whenever
// accumulated token ids are converted to text.
type TokenizerFailedError struct {
	Err error
}

func (e *TokenizerFailedError) Error() string {
	return fmt.Sprintf("asrcore: tokenizer failed: %v", e.Err)
}

func (e *TokenizerFailedError) Unwrap() error { return e.Err }
