package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlegrand/scribe/internal/errs"
)

// OutputPath derives the persisted transcript path from the audio path by
// replacing the extension with .json, keeping directory and base name.
func OutputPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + ".json"
}

// Write persists the result as a pretty-printed sibling JSON file, then
// mirrors the identical logical object as a single compact line on stdout.
// The file write always completes before the stdout line is emitted, so a
// caller that observes the line may assume the file exists. On any write
// failure nothing is emitted on stdout.
func Write(result Result, audioPath string, stdout io.Writer) (string, error) {
	path := OutputPath(audioPath)

	pretty, err := encode(result, "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		return "", fmt.Errorf("%w: write transcript file %s: %w", errs.ErrFatalIO, path, err)
	}

	compact, err := encode(result, "")
	if err != nil {
		return "", err
	}
	if _, err := stdout.Write(compact); err != nil {
		return "", fmt.Errorf("%w: emit transcript on stdout: %w", errs.ErrFatalIO, err)
	}

	return path, nil
}

// encode marshals with HTML escaping off so non-ASCII text and characters
// like & survive unescaped. The encoder terminates the output with a
// newline, which is exactly the single-line stdout contract when indent is
// empty.
func encode(result Result, indent string) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("%w: encode transcript: %w", errs.ErrFatalIO, err)
	}
	return buf.Bytes(), nil
}
