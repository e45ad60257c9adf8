package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/mlegrand/scribe/internal/whisper"
)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// fakeProvider and fakeHandle stand in for the subprocess engine so the
// orchestration can be exercised without python or model downloads.
type fakeProvider struct {
	handle    *fakeHandle
	loadErr   error
	loadCalls int
	gotLoad   whisper.LoadOptions
}

func (p *fakeProvider) Load(_ context.Context, opts whisper.LoadOptions) (whisper.ModelHandle, error) {
	p.loadCalls++
	p.gotLoad = opts
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.handle, nil
}

type fakeHandle struct {
	info          whisper.Info
	segments      []whisper.Segment
	streamErr     error
	transcribeErr error

	gotAudio string
	gotOpts  whisper.TranscribeOptions
	closed   bool
}

func (h *fakeHandle) Transcribe(_ context.Context, audioPath string, opts whisper.TranscribeOptions) (whisper.Info, *whisper.SegmentStream, error) {
	h.gotAudio = audioPath
	h.gotOpts = opts
	if h.transcribeErr != nil {
		return whisper.Info{}, nil, h.transcribeErr
	}

	i := 0
	stream := whisper.NewSegmentStream(func() (whisper.Segment, bool, error) {
		if i >= len(h.segments) {
			return whisper.Segment{}, false, h.streamErr
		}
		seg := h.segments[i]
		i++
		return seg, true, nil
	})
	return h.info, stream, nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}
