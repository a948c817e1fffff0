package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SessionChart/internal/batch"
	"SessionChart/internal/chart"
	"SessionChart/internal/collector"
	"SessionChart/internal/notifier"
	"SessionChart/internal/recorder"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fetch, archive and render every configured ticker once",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tickers, _ := cmd.Flags().GetStringSlice("tickers"); len(tickers) > 0 {
			cfg.Tickers = tickers
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, closeFn, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeFn()

		report, err := p.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s: %d charts, %d failures (%s)\n",
			report.RunID, report.TotalCharts(), report.Failures(), report.Status())
		if report.Status() == "FAILED" {
			return fmt.Errorf("batch failed")
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringSlice("tickers", nil, "override configured tickers")
}

// newPipeline wires fetcher, renderer, recorder and notifier from cfg. The
// returned func releases the recorder.
func newPipeline() (*batch.Pipeline, func(), error) {
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	slog.Info("data source", "name", fetcher.Name())

	renderer, err := chart.NewRenderer(cfg.Style, cfg.Calendar)
	if err != nil {
		return nil, nil, err
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			slog.Warn("init sqlite recorder failed, using noop", "err", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var n notifier.Notifier = notifier.LogNotifier{}
	if cfg.TelegramEnabled() {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	p, err := batch.New(batch.OptionsFromConfig(cfg), fetcher, renderer, rec, n)
	if err != nil {
		rec.Close()
		return nil, nil, err
	}
	return p, func() { rec.Close() }, nil
}
