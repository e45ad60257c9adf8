package whisper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentStreamYieldsInProductionOrder(t *testing.T) {
	t.Parallel()

	produced := []Segment{
		{ID: 1, Start: 0, End: 1.5, Text: "first"},
		{ID: 2, Start: 1.5, End: 3, Text: "second"},
		{ID: 3, Start: 3, End: 4.2, Text: "third"},
	}

	i := 0
	stream := NewSegmentStream(func() (Segment, bool, error) {
		if i >= len(produced) {
			return Segment{}, false, nil
		}
		seg := produced[i]
		i++
		return seg, true, nil
	})

	var got []Segment
	for {
		seg, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, seg)
	}
	require.Equal(t, produced, got)
}

func TestSegmentStreamExhaustionIsSticky(t *testing.T) {
	t.Parallel()

	calls := 0
	stream := NewSegmentStream(func() (Segment, bool, error) {
		calls++
		return Segment{}, false, nil
	})

	_, ok, err := stream.Next()
	require.NoError(t, err)
	require.False(t, ok)

	// The pull function must not be invoked again after exhaustion.
	_, ok, err = stream.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, calls)
}

func TestSegmentStreamErrorIsSticky(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("decode blew up")
	calls := 0
	stream := NewSegmentStream(func() (Segment, bool, error) {
		calls++
		return Segment{}, false, wantErr
	})

	_, ok, err := stream.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, wantErr)

	_, ok, err = stream.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1, calls)
}
