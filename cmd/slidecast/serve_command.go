package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/api"
	"slidecast/internal/render"
)

// pollInterval is how often the job runner re-checks an empty queue.
const pollInterval = 2 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and render worker",
		Long: "Serve exposes the job queue over HTTP and drains it with a " +
			"background render worker until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			pipeline, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(cfg, store, logger)
			runner := render.NewJobRunner(cfg, store, pipeline, logger)
			runner.OnProgress = server.PublishProgress
			runner.OnFinished = server.PublishFinished

			workerDone := make(chan struct{})
			go func() {
				defer close(workerDone)
				_ = runner.Poll(runCtx, pollInterval)
			}()

			err = server.ListenAndServe(runCtx)
			stop()
			<-workerDone
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
