package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/queue"
	"slidecast/internal/render"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage the render job queue",
	}

	jobsCmd.AddCommand(newJobsAddCommand(ctx))
	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))

	return jobsCmd
}

func newJobsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <manifest.json>",
		Short: "Queue a manifest for rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			manifest, err := render.ParseManifest(data)
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.NewJob(cmd.Context(), manifest.Project, string(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d for project %q\n", job.ID, job.Project)
			return nil
		},
	}
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No render jobs.")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					job.Project,
					string(job.Status),
					fmt.Sprintf("%.0f%%", job.Progress),
					jobSummary(job),
					job.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Project", "Status", "Progress", "Summary", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one render job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %d (%s)\n", job.ID, job.Project)
			fmt.Fprintf(out, "  status:   %s\n", job.Status)
			fmt.Fprintf(out, "  progress: %.1f%% %s %s\n", job.Progress, job.ProgressStage, job.ProgressMessage)
			if job.VideoPath != "" {
				fmt.Fprintf(out, "  video:    %s\n", job.VideoPath)
			}
			if job.SubtitlePath != "" {
				fmt.Fprintf(out, "  subtitle: %s\n", job.SubtitlePath)
			}
			if job.DurationMS > 0 {
				fmt.Fprintf(out, "  duration: %s over %d segments\n", formatDuration(job.DurationMS), job.SegmentCount)
			}
			if job.ErrorMessage != "" {
				fmt.Fprintf(out, "  error:    %s\n", job.ErrorMessage)
			}
			fmt.Fprintf(out, "  created:  %s\n", job.CreatedAt.Local().Format(time.RFC3339))
			if job.FinishedAt != nil {
				fmt.Fprintf(out, "  finished: %s\n", job.FinishedAt.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished and failed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.ClearTerminal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d terminal jobs\n", removed)
			return nil
		},
	}
}

func jobSummary(job *queue.Job) string {
	switch job.Status {
	case queue.StatusSucceeded:
		return fmt.Sprintf("%d segments, %s", job.SegmentCount, formatDuration(job.DurationMS))
	case queue.StatusFailed:
		return job.ErrorMessage
	default:
		return job.ProgressMessage
	}
}
