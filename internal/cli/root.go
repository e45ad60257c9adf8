// Package cli wires the cobra commands: the root transcription run, the
// model prefetcher, and version reporting.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mlegrand/scribe/internal/config"
	"github.com/mlegrand/scribe/internal/download"
	"github.com/mlegrand/scribe/internal/logging"
	"github.com/mlegrand/scribe/internal/platform"
	"github.com/mlegrand/scribe/internal/version"
	"github.com/mlegrand/scribe/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	cacheDir   string
	pythonBin  string

	logger *zap.Logger
	out    io.Writer

	// provider and downloadFn are injection points for tests; nil means
	// the real subprocess engine and HTTP download.
	provider   whisper.Provider
	downloadFn func(context.Context, download.Options) error
}

func NewRootCmd() *cobra.Command {
	app := &appState{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "scribe <audio-file> [model-size] [language]",
		Short: "Transcribe an audio file into time-aligned JSON segments",
		Long: fmt.Sprintf(`Scribe runs a local faster-whisper model over a recorded audio file and
writes a time-aligned transcript next to it as <audio>.json, mirroring the
same JSON as a single compact line on stdout for a calling process.

Model sizes: %s (default %q).
The optional language argument forces the transcript language (e.g. fr, en);
omit it for automatic detection.`, strings.Join(whisper.ModelSizes(), ", "), whisper.DefaultModelSize),
		Example:       "  scribe tmp/audio.wav\n  scribe tmp/audio.wav base fr",
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger

			env := config.Load()
			if app.pythonBin == "" {
				app.pythonBin = env.PythonBin
			}
			if app.cacheDir == "" {
				app.cacheDir = env.ModelCacheDir
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTranscription(cmd.Context(), args)
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", false, "Enable JSON logging")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", false, "Disable progress indicators")
	cmd.PersistentFlags().StringVar(&app.cacheDir, "model-cache", "", "Directory where models are cached (default: platform data dir)")
	cmd.PersistentFlags().StringVar(&app.pythonBin, "python", "", "Python interpreter used to run the engine helper (default: python3)")

	cmd.AddCommand(newPrefetchCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *appState) modelCacheDir() (string, error) {
	dir, err := platform.ResolveModelCacheDir(a.cacheDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model cache directory %s: %w", dir, err)
	}
	return dir, nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
