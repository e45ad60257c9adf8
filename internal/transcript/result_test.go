package transcript

import (
	"errors"
	"testing"

	"github.com/mlegrand/scribe/internal/whisper"
	"github.com/stretchr/testify/require"
)

func streamOf(segments ...whisper.Segment) *whisper.SegmentStream {
	i := 0
	return whisper.NewSegmentStream(func() (whisper.Segment, bool, error) {
		if i >= len(segments) {
			return whisper.Segment{}, false, nil
		}
		seg := segments[i]
		i++
		return seg, true, nil
	})
}

func TestCollectRoundsAndTrims(t *testing.T) {
	t.Parallel()

	info := whisper.Info{Language: "fr", LanguageProbability: 0.987654, Duration: 12.3456}
	stream := streamOf(
		whisper.Segment{ID: 1, Start: 0.004, End: 2.567, Text: " Bonjour tout le monde. "},
		whisper.Segment{ID: 2, Start: 2.567, End: 4.999, Text: "\tÇa va ?\n"},
	)

	result, err := Collect(info, stream, nil)
	require.NoError(t, err)

	require.Equal(t, "fr", result.Language)
	require.Equal(t, 0.9877, result.LanguageProbability)
	require.Equal(t, 12.35, result.Duration)

	require.Len(t, result.Segments, 2)
	require.Equal(t, Segment{ID: 1, Start: 0.0, End: 2.57, Text: "Bonjour tout le monde."}, result.Segments[0])
	require.Equal(t, Segment{ID: 2, Start: 2.57, End: 5.0, Text: "Ça va ?"}, result.Segments[1])
}

func TestCollectPreservesProductionOrder(t *testing.T) {
	t.Parallel()

	stream := streamOf(
		whisper.Segment{ID: 1, Start: 0, End: 1, Text: "a"},
		whisper.Segment{ID: 2, Start: 1, End: 2, Text: "b"},
		whisper.Segment{ID: 3, Start: 2, End: 3, Text: "c"},
	)

	var seen []string
	result, err := Collect(whisper.Info{Language: "en"}, stream, func(seg Segment) {
		seen = append(seen, seg.Text)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, seen)

	for i := 1; i < len(result.Segments); i++ {
		require.GreaterOrEqual(t, result.Segments[i].Start, result.Segments[i-1].Start)
	}
	for _, seg := range result.Segments {
		require.GreaterOrEqual(t, seg.End, seg.Start)
	}
}

func TestCollectEmptyStreamKeepsEmptySegmentList(t *testing.T) {
	t.Parallel()

	result, err := Collect(whisper.Info{Language: "en", Duration: 1.5}, streamOf(), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Segments)
	require.Empty(t, result.Segments)
}

func TestCollectKeepsEmptySegmentText(t *testing.T) {
	t.Parallel()

	result, err := Collect(whisper.Info{}, streamOf(whisper.Segment{ID: 1, Start: 0, End: 0.5, Text: "   "}), nil)
	require.NoError(t, err)
	require.Len(t, result.Segments, 1)
	require.Equal(t, "", result.Segments[0].Text)
}

func TestCollectPropagatesStreamError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("decoder crashed")
	yielded := false
	stream := whisper.NewSegmentStream(func() (whisper.Segment, bool, error) {
		if !yielded {
			yielded = true
			return whisper.Segment{ID: 1, Start: 0, End: 1, Text: "partial"}, true, nil
		}
		return whisper.Segment{}, false, wantErr
	})

	_, err := Collect(whisper.Info{}, stream, nil)
	require.ErrorIs(t, err, wantErr)
}
