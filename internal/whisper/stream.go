package whisper

// SegmentStream is a forward-only, single-pass sequence of segments. It
// pulls from the engine as it is consumed and cannot be restarted: once
// Next has reported the end of the stream it keeps reporting it, and there
// is no way to rewind. Callers must consume segments in the order yielded.
type SegmentStream struct {
	next func() (Segment, bool, error)
	done bool
	err  error
}

// NewSegmentStream wraps a pull function. The function returns the next
// segment and true, or false when the sequence is exhausted; a non-nil
// error terminates the stream.
func NewSegmentStream(next func() (Segment, bool, error)) *SegmentStream {
	return &SegmentStream{next: next}
}

// Next yields the next segment in production order. After exhaustion or an
// error it returns ok=false and the terminal error, if any, on every
// subsequent call.
func (s *SegmentStream) Next() (Segment, bool, error) {
	if s.done {
		return Segment{}, false, s.err
	}

	seg, ok, err := s.next()
	if err != nil {
		s.done = true
		s.err = err
		return Segment{}, false, err
	}
	if !ok {
		s.done = true
		return Segment{}, false, nil
	}
	return seg, true, nil
}
