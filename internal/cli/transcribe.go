package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlegrand/scribe/internal/errs"
	"github.com/mlegrand/scribe/internal/transcript"
	"github.com/mlegrand/scribe/internal/whisper"
	"go.uber.org/zap"
)

// invocation is the resolved positional argument set of a transcription
// run. An empty language requests automatic detection.
type invocation struct {
	audioPath string
	modelSize string
	language  string
}

func resolveInvocation(args []string) (invocation, error) {
	inv := invocation{modelSize: whisper.DefaultModelSize}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return inv, fmt.Errorf("%w: audio file argument is required", errs.ErrUsage)
	}
	inv.audioPath = args[0]

	if len(args) > 1 && args[1] != "" {
		if _, ok := whisper.LookupModel(args[1]); !ok {
			return inv, fmt.Errorf("%w: unknown model size %q (valid sizes: %s)", errs.ErrUsage, args[1], strings.Join(whisper.ModelSizes(), ", "))
		}
		inv.modelSize = args[1]
	}

	if len(args) > 2 {
		inv.language = strings.ToLower(strings.TrimSpace(args[2]))
	}

	return inv, nil
}

// runTranscription is the core pipeline: resolve arguments, validate the
// input path, load the model, drain the segment stream once, persist the
// transcript, emit it on stdout. Stages run strictly in that order so a
// missing file never pays the model-load cost and no partial output is
// ever produced.
func (a *appState) runTranscription(ctx context.Context, args []string) error {
	inv, err := resolveInvocation(args)
	if err != nil {
		return err
	}

	audioPath := filepath.Clean(inv.audioPath)
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrNotFound, audioPath)
	}

	cacheDir, err := a.modelCacheDir()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrModelLoad, err)
	}

	provider := a.provider
	if provider == nil {
		provider = whisper.NewSubprocessProvider(a.pythonBin, a.log())
	}

	a.log().Info("loading model",
		zap.String("model", inv.modelSize),
		zap.String("device", "cpu"),
		zap.String("compute", "int8"),
	)
	handle, err := provider.Load(ctx, whisper.LoadOptions{
		Size:     inv.modelSize,
		Device:   "cpu",
		Compute:  "int8",
		CacheDir: cacheDir,
	})
	if err != nil {
		return classifyEngineErr(err, errs.ErrModelLoad)
	}
	defer func() {
		if err := handle.Close(); err != nil {
			a.log().Warn("failed to release model", zap.Error(err))
		}
	}()

	a.log().Info("transcribing",
		zap.String("audio", audioPath),
		zap.String("language", languageOrAuto(inv.language)),
	)
	stopSpinner := startSpinner(a.progressEnabled(), "Transcribing")
	started := time.Now()

	info, stream, err := handle.Transcribe(ctx, audioPath, whisper.TranscribeOptions{
		BeamSize:  5,
		Language:  inv.language,
		VADFilter: true,
	})
	stopSpinner()
	if err != nil {
		a.log().Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return classifyEngineErr(err, errs.ErrTranscribe)
	}

	a.log().Info("language detected",
		zap.String("language", info.Language),
		zap.Float64("probability", info.LanguageProbability),
		zap.Float64("duration_seconds", info.Duration),
	)

	result, err := transcript.Collect(info, stream, func(seg transcript.Segment) {
		a.log().Info(fmt.Sprintf("[%.2fs -> %.2fs] %s", seg.Start, seg.End, seg.Text))
	})
	if err != nil {
		a.log().Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return classifyEngineErr(err, errs.ErrTranscribe)
	}
	a.log().Info("transcription finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("segments", len(result.Segments)),
	)

	path, err := transcript.Write(result, audioPath, a.outWriter())
	if err != nil {
		return err
	}
	a.log().Info("transcript saved", zap.String("path", path))

	return nil
}

// classifyEngineErr keeps an error that already carries a failure class
// and wraps everything else with the given fallback class.
func classifyEngineErr(err, fallback error) error {
	if errors.Is(err, errs.ErrModelLoad) || errors.Is(err, errs.ErrTranscribe) {
		return err
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

func languageOrAuto(language string) string {
	if language == "" {
		return "auto"
	}
	return language
}
