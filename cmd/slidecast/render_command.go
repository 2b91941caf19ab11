package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slidecast/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "render <manifest.json>",
		Short: "Render a manifest to a video immediately",
		Long: "Render reads a manifest document and runs the full pipeline in the " +
			"foreground, bypassing the job queue.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			manifest, err := render.ParseManifest(data)
			if err != nil {
				return err
			}

			pipeline, err := ctx.newPipeline()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			spec := render.JobSpec{
				ID:       uuid.NewString(),
				Manifest: manifest,
			}
			if !quiet {
				spec.Progress = func(p render.Progress) {
					fmt.Fprintf(out, "[%5.1f%%] %s: %s\n", p.Percent, p.Stage, p.Message)
				}
			}

			started := time.Now()
			result, err := pipeline.Render(cmd.Context(), spec)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Rendered %s in %s\n", result.VideoPath, time.Since(started).Round(time.Second))
			fmt.Fprintf(out, "  segments: %d (%d dropped)\n", result.SegmentCount, result.DroppedCount)
			fmt.Fprintf(out, "  duration: %s\n", formatDuration(result.DurationMS))
			if result.SubtitlePath != "" {
				fmt.Fprintf(out, "  subtitles: %s\n", result.SubtitlePath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	return cmd
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}
