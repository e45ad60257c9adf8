package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mlegrand/scribe/internal/cli"
	"github.com/mlegrand/scribe/internal/errs"
	"github.com/mlegrand/scribe/internal/whisper"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if isUsageError(err) {
			printUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

// isUsageError recognizes both our own usage class and cobra's argument
// and flag parsing errors, which never pass through the errs sentinels.
func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrUsage) {
		return true
	}

	message := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"accepts ",
		"requires at least",
		"requires at most",
		"requires between",
	}

	for _, pattern := range patterns {
		if strings.Contains(message, pattern) {
			return true
		}
	}

	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: scribe <audio-file> [model-size] [language]")
	fmt.Fprintf(w, "Model sizes: %s (default %q)\n", strings.Join(whisper.ModelSizes(), ", "), whisper.DefaultModelSize)
	fmt.Fprintln(w, "Example: scribe tmp/audio.wav base fr")
}
