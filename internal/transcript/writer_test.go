package transcript

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlegrand/scribe/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		audioPath string
		want      string
	}{
		{audioPath: "tmp/audio.wav", want: "tmp/audio.json"},
		{audioPath: "clip.mp3", want: "clip.json"},
		{audioPath: "/abs/path/record.ogg", want: "/abs/path/record.json"},
		{audioPath: "noext", want: "noext.json"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, OutputPath(tt.audioPath))
	}
}

func sampleResult() Result {
	return Result{
		Language:            "fr",
		LanguageProbability: 0.98,
		Duration:            4.5,
		Segments: []Segment{
			{ID: 1, Start: 0, End: 2.5, Text: "Bonjour à tous & bienvenue"},
			{ID: 2, Start: 2.5, End: 4.5, Text: "Ça va ?"},
		},
	}
}

func TestWriteFileAndStdoutAreStructurallyIdentical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.wav")
	stdout := new(bytes.Buffer)

	path, err := Write(sampleResult(), audioPath, stdout)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "audio.json"), path)

	fileContent, err := os.ReadFile(path)
	require.NoError(t, err)

	var fromFile, fromStdout Result
	require.NoError(t, json.Unmarshal(fileContent, &fromFile))
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &fromStdout))
	require.Equal(t, fromFile, fromStdout)
	require.Equal(t, sampleResult(), fromFile)
}

func TestWriteFileIsPrettyStdoutIsOneLine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stdout := new(bytes.Buffer)

	path, err := Write(sampleResult(), filepath.Join(dir, "audio.wav"), stdout)
	require.NoError(t, err)

	fileContent, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(fileContent), "\n  \"language\": \"fr\"")

	line := stdout.String()
	require.Equal(t, 1, strings.Count(line, "\n"))
	require.True(t, strings.HasSuffix(line, "\n"))
	require.NotContains(t, strings.TrimSuffix(line, "\n"), "\n")
}

func TestWriteLeavesNonASCIIUnescaped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stdout := new(bytes.Buffer)

	path, err := Write(sampleResult(), filepath.Join(dir, "audio.wav"), stdout)
	require.NoError(t, err)

	fileContent, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(fileContent), "Ça va ?")
	require.Contains(t, string(fileContent), "&")
	require.NotContains(t, string(fileContent), `\u`)
	require.Contains(t, stdout.String(), "Ça va ?")
}

func TestWriteFailureEmitsNothingOnStdout(t *testing.T) {
	t.Parallel()

	stdout := new(bytes.Buffer)
	audioPath := filepath.Join(t.TempDir(), "missing-dir", "audio.wav")

	_, err := Write(sampleResult(), audioPath, stdout)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrFatalIO)
	require.Zero(t, stdout.Len())
}

func TestWriteEmptySegmentsSerializesAsEmptyArray(t *testing.T) {
	t.Parallel()

	stdout := new(bytes.Buffer)
	result := Result{Language: "en", Segments: make([]Segment, 0)}

	_, err := Write(result, filepath.Join(t.TempDir(), "a.wav"), stdout)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), `"segments":[]`)
}
