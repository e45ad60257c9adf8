package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlegrand/scribe/internal/download"
	"github.com/mlegrand/scribe/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newPrefetchCmd downloads the whole model catalog into the local cache so
// later transcription runs work offline. It shares nothing with the
// transcription path beyond the cache directory on disk.
func newPrefetchCmd(app *appState) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Download all whisper models into the local cache for offline use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cacheDir, err := app.modelCacheDir()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printPrefetchBanner(out, cacheDir)

			if !assumeYes && !confirmPrefetch(cmd.InOrStdin(), out) {
				fmt.Fprintln(out, "Prefetch cancelled.")
				return nil
			}

			downloadFn := app.downloadFn
			if downloadFn == nil {
				downloadFn = download.DownloadFile
			}

			sizes := whisper.ModelSizes()
			var failed []string
			for _, size := range sizes {
				model, _ := whisper.LookupModel(size)
				if err := app.prefetchModel(cmd.Context(), downloadFn, cacheDir, model); err != nil {
					app.log().Warn("model download failed", zap.String("model", size), zap.Error(err))
					fmt.Fprintf(out, "failed  %-9s %v\n", size, err)
					failed = append(failed, size)
					continue
				}
				fmt.Fprintf(out, "ok      %s\n", size)
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d models failed to download: %s", len(failed), len(sizes), strings.Join(failed, ", "))
			}

			fmt.Fprintln(out, "All models are ready for offline use.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&assumeYes, "yes", false, "Skip the download confirmation prompt")

	return cmd
}

func (a *appState) prefetchModel(ctx context.Context, downloadFn func(context.Context, download.Options) error, cacheDir string, model whisper.Model) error {
	modelDir := filepath.Join(cacheDir, model.Size)
	for _, file := range model.Files {
		destination := filepath.Join(modelDir, file)
		if _, err := os.Stat(destination); err == nil {
			a.log().Debug("model file already cached", zap.String("path", destination))
			continue
		}

		if err := downloadFn(ctx, download.Options{
			URL:         model.FileURL(file),
			Destination: destination,
			NoProgress:  a.noProgress,
			Logger:      a.log(),
		}); err != nil {
			return fmt.Errorf("download %s: %w", file, err)
		}
	}
	return nil
}

func printPrefetchBanner(out io.Writer, cacheDir string) {
	fmt.Fprintln(out, "Prefetching whisper models for offline use.")
	fmt.Fprintf(out, "Cache directory: %s\n", cacheDir)
	fmt.Fprintln(out, "Approximate sizes:")
	for _, size := range whisper.ModelSizes() {
		model, _ := whisper.LookupModel(size)
		fmt.Fprintf(out, "  %-9s %s\n", model.Size, model.ApproxSize)
	}
	fmt.Fprintln(out, "Total: ~5.2 GB")
}

func confirmPrefetch(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Continue downloading? [y/N]: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
