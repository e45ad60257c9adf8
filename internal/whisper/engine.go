// Package whisper binds the transcription pipeline to a faster-whisper
// speech-recognition engine. The engine is modeled as two calls: a Provider
// loads a model size into a ModelHandle, and the handle transcribes one
// audio file into a detection summary plus a lazy stream of segments.
package whisper

import "context"

// LoadOptions selects the model and the execution policy it runs under.
type LoadOptions struct {
	Size     string
	Device   string
	Compute  string
	CacheDir string
}

// TranscribeOptions carries the decoding parameters for a single call.
// An empty Language requests automatic detection.
type TranscribeOptions struct {
	BeamSize       int
	Language       string
	VADFilter      bool
	WordTimestamps bool
}

// Info is the engine's detection summary, available as soon as the first
// decoding pass resolves and before the segment stream is drained.
type Info struct {
	Language            string
	LanguageProbability float64
	Duration            float64
}

// Segment is one decoded span of speech as the engine yields it,
// timestamps in seconds and text untrimmed.
type Segment struct {
	ID    int
	Start float64
	End   float64
	Text  string
}

// Provider loads models. The transcription path holds exactly one provider
// and asks it for exactly one handle per process run.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (ModelHandle, error)
}

// ModelHandle is a loaded model. Transcribe may be called at most once per
// handle; Close releases the engine resources and is safe to call whether
// or not a transcription ran.
type ModelHandle interface {
	Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (Info, *SegmentStream, error)
	Close() error
}
