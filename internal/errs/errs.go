// Package errs defines the failure classes of the transcription pipeline.
// Every error that reaches the top level wraps exactly one of these
// sentinels; the process exit code is 1 for all of them, so the class only
// drives the diagnostic message.
package errs

import "errors"

var (
	// ErrUsage marks malformed or missing CLI arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrNotFound marks an input audio path that does not exist.
	ErrNotFound = errors.New("audio file not found")

	// ErrModelLoad marks engine initialization or model download failures.
	ErrModelLoad = errors.New("model load failed")

	// ErrTranscribe marks decoding failures after the model was loaded.
	ErrTranscribe = errors.New("transcription failed")

	// ErrFatalIO marks a failure to persist the transcript.
	ErrFatalIO = errors.New("output write failed")
)
