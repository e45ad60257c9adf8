package whisper

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mlegrand/scribe/internal/errs"
	"go.uber.org/zap"
)

//go:embed assets/faster_whisper.py
var helperScript []byte

// SubprocessProvider loads faster-whisper models by running an embedded
// Python helper in a child process. The helper streams newline-delimited
// JSON, which keeps segment production lazy on the Go side: each segment
// is decoded from the pipe only when the stream is pulled.
type SubprocessProvider struct {
	Python string
	Logger *zap.Logger
}

func NewSubprocessProvider(python string, logger *zap.Logger) *SubprocessProvider {
	if strings.TrimSpace(python) == "" {
		python = "python3"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubprocessProvider{Python: python, Logger: logger}
}

func (p *SubprocessProvider) Load(ctx context.Context, opts LoadOptions) (ModelHandle, error) {
	if _, ok := LookupModel(opts.Size); !ok {
		return nil, fmt.Errorf("unknown model size %q (known sizes: %s)", opts.Size, strings.Join(ModelSizes(), ", "))
	}

	python, err := exec.LookPath(p.Python)
	if err != nil {
		return nil, fmt.Errorf("python interpreter %q not found: %w", p.Python, err)
	}

	script, err := os.CreateTemp("", "scribe-whisper-*.py")
	if err != nil {
		return nil, fmt.Errorf("write engine helper: %w", err)
	}
	if _, err := script.Write(helperScript); err != nil {
		_ = script.Close()
		_ = os.Remove(script.Name())
		return nil, fmt.Errorf("write engine helper: %w", err)
	}
	if err := script.Close(); err != nil {
		_ = os.Remove(script.Name())
		return nil, fmt.Errorf("write engine helper: %w", err)
	}

	return &subprocessModel{
		python:     python,
		scriptPath: script.Name(),
		load:       opts,
		logger:     p.Logger,
	}, nil
}

// engineRecord is one NDJSON line from the helper.
type engineRecord struct {
	Type                string  `json:"type"`
	Stage               string  `json:"stage"`
	Message             string  `json:"message"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
	ID                  int     `json:"id"`
	Start               float64 `json:"start"`
	End                 float64 `json:"end"`
	Text                string  `json:"text"`
}

type subprocessModel struct {
	python     string
	scriptPath string
	load       LoadOptions
	logger     *zap.Logger

	started bool
	cmd     *exec.Cmd
	stderr  *bytes.Buffer
}

func (m *subprocessModel) Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (Info, *SegmentStream, error) {
	if m.started {
		return Info{}, nil, errors.New("model handle already consumed; transcription is single-pass")
	}
	m.started = true

	args := []string{
		m.scriptPath,
		"--audio", audioPath,
		"--model", m.load.Size,
		"--device", m.load.Device,
		"--compute-type", m.load.Compute,
		"--beam-size", strconv.Itoa(opts.BeamSize),
	}
	if m.load.CacheDir != "" {
		args = append(args, "--cache-dir", m.load.CacheDir)
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if opts.VADFilter {
		args = append(args, "--vad-filter")
	}
	if opts.WordTimestamps {
		args = append(args, "--word-timestamps")
	}

	cmd := exec.CommandContext(ctx, m.python, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Info{}, nil, fmt.Errorf("engine stdout pipe: %w", err)
	}
	m.stderr = new(bytes.Buffer)
	cmd.Stderr = m.stderr

	m.logger.Debug("starting whisper helper", zap.String("python", m.python), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return Info{}, nil, fmt.Errorf("%w: start whisper helper: %w", errs.ErrModelLoad, err)
	}
	m.cmd = cmd

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	info, err := m.awaitInfo(scanner)
	if err != nil {
		return Info{}, nil, err
	}

	return info, NewSegmentStream(m.pullSegment(scanner)), nil
}

// awaitInfo blocks until the helper reports its detection summary. Any
// failure before that point is a load-phase failure: the model either did
// not initialize or could not start decoding at all.
func (m *subprocessModel) awaitInfo(scanner *bufio.Scanner) (Info, error) {
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec engineRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			_ = m.cmd.Wait()
			return Info{}, fmt.Errorf("%w: malformed engine record: %w", errs.ErrModelLoad, err)
		}

		switch rec.Type {
		case "info":
			return Info{
				Language:            rec.Language,
				LanguageProbability: rec.LanguageProbability,
				Duration:            rec.Duration,
			}, nil
		case "error":
			_ = m.cmd.Wait()
			if rec.Stage == "decode" {
				return Info{}, fmt.Errorf("%w: %s", errs.ErrTranscribe, rec.Message)
			}
			return Info{}, fmt.Errorf("%w: %s", errs.ErrModelLoad, rec.Message)
		}
	}

	if err := scanner.Err(); err != nil {
		_ = m.cmd.Wait()
		return Info{}, fmt.Errorf("%w: read engine output: %w", errs.ErrModelLoad, err)
	}

	waitErr := m.cmd.Wait()
	return Info{}, fmt.Errorf("%w: whisper helper exited before reporting detection: %v%s", errs.ErrModelLoad, waitErr, stderrTail(m.stderr))
}

func (m *subprocessModel) pullSegment(scanner *bufio.Scanner) func() (Segment, bool, error) {
	return func() (Segment, bool, error) {
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var rec engineRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				_ = m.cmd.Wait()
				return Segment{}, false, fmt.Errorf("%w: malformed engine record: %w", errs.ErrTranscribe, err)
			}

			switch rec.Type {
			case "segment":
				return Segment{ID: rec.ID, Start: rec.Start, End: rec.End, Text: rec.Text}, true, nil
			case "error":
				_ = m.cmd.Wait()
				return Segment{}, false, fmt.Errorf("%w: %s", errs.ErrTranscribe, rec.Message)
			}
		}

		if err := scanner.Err(); err != nil {
			_ = m.cmd.Wait()
			return Segment{}, false, fmt.Errorf("%w: read engine output: %w", errs.ErrTranscribe, err)
		}
		if err := m.cmd.Wait(); err != nil {
			return Segment{}, false, fmt.Errorf("%w: %v%s", errs.ErrTranscribe, err, stderrTail(m.stderr))
		}
		return Segment{}, false, nil
	}
}

func (m *subprocessModel) Close() error {
	if m.cmd != nil && m.cmd.Process != nil && m.cmd.ProcessState == nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
	}

	if m.scriptPath == "" {
		return nil
	}
	path := m.scriptPath
	m.scriptPath = ""
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove engine helper: %w", err)
	}
	return nil
}

func stderrTail(buf *bytes.Buffer) string {
	if buf == nil {
		return ""
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return ""
	}
	const limit = 400
	if len(text) > limit {
		text = text[len(text)-limit:]
	}
	return " (" + text + ")"
}
