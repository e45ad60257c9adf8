// Package transcript assembles the engine's output into the immutable
// transcript document that is persisted and handed to the calling process.
package transcript

import (
	"fmt"
	"math"
	"strings"

	"github.com/mlegrand/scribe/internal/whisper"
)

// Result is the transcript of one invocation. It is built once, after the
// segment stream has been fully drained, and never mutated afterwards.
type Result struct {
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Duration            float64   `json:"duration"`
	Segments            []Segment `json:"segments"`
}

// Segment is one span of transcribed speech. Timestamps are seconds
// rounded to 2 decimals and the text is whitespace-trimmed; the text may
// be empty when the engine emits a silent span.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Collect drains the segment stream and builds the Result. Segments are
// kept in the exact order the engine yields them, which is ascending start
// time. onSegment, when non-nil, is called once per consumed segment so
// the caller can report progress.
func Collect(info whisper.Info, stream *whisper.SegmentStream, onSegment func(Segment)) (Result, error) {
	result := Result{
		Language:            info.Language,
		LanguageProbability: round(info.LanguageProbability, 4),
		Duration:            round(info.Duration, 2),
		Segments:            make([]Segment, 0, 16),
	}

	for {
		raw, ok, err := stream.Next()
		if err != nil {
			return Result{}, fmt.Errorf("consume segment stream: %w", err)
		}
		if !ok {
			return result, nil
		}

		seg := Segment{
			ID:    raw.ID,
			Start: round(raw.Start, 2),
			End:   round(raw.End, 2),
			Text:  strings.TrimSpace(raw.Text),
		}
		result.Segments = append(result.Segments, seg)
		if onSegment != nil {
			onSegment(seg)
		}
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
