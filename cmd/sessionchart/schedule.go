package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SessionChart/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily batch on its cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("SessionChart scheduler starting")

		p, closeFn, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeFn()

		// Context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sched := scheduler.NewScheduler(ctx, p)
		if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// Optional: run immediately on start
		if now, _ := cmd.Flags().GetBool("now"); now || cfg.Schedule.RunOnStart {
			slog.Info("run on start enabled, executing batch now")
			go sched.RunNow()
		}

		slog.Info("SessionChart is running, press Ctrl+C to stop")

		// Wait for shutdown signal
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutdown signal received, stopping")
		cancel()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Bool("now", false, "also run the batch immediately")
}
