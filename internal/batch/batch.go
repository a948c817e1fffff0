// Package batch runs the fetch, archive, statistics and render pipeline for
// every configured ticker.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"SessionChart/internal/chart"
	"SessionChart/internal/collector"
	"SessionChart/internal/config"
	"SessionChart/internal/model"
	"SessionChart/internal/notifier"
	"SessionChart/internal/recorder"
	"SessionChart/internal/saver"
	"SessionChart/internal/stats"
)

// Options are the pipeline knobs.
type Options struct {
	DataDir        string
	Tickers        []string
	SaveFormat     string
	MinSessionBars int
	Workers        int
	IntradayDays   int
}

// OptionsFromConfig copies the pipeline settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DataDir:        cfg.DataDir,
		Tickers:        cfg.Tickers,
		SaveFormat:     cfg.SaveFormat,
		MinSessionBars: cfg.MinSessionBars,
		Workers:        cfg.Workers,
		IntradayDays:   cfg.IntradayDays,
	}
}

// Pipeline produces charts, archives and statistics for a set of tickers.
type Pipeline struct {
	opts      Options
	collector *collector.Collector
	renderer  *chart.Renderer
	saver     saver.BarSaver
	recorder  recorder.Recorder
	notifier  notifier.Notifier
	now       func() time.Time
}

// New wires a pipeline. A nil recorder or notifier disables that concern.
func New(opts Options, fetcher collector.Fetcher, renderer *chart.Renderer,
	rec recorder.Recorder, n notifier.Notifier) (*Pipeline, error) {
	s := saver.NewBarSaver(opts.SaveFormat)
	if s == nil {
		return nil, fmt.Errorf("unsupported save format %q", opts.SaveFormat)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		opts:      opts,
		collector: collector.NewCollector(fetcher, opts.IntradayDays),
		renderer:  renderer,
		saver:     s,
		recorder:  rec,
		notifier:  n,
		now:       time.Now,
	}, nil
}

// Run processes every ticker, writes metadata.json, records the run and sends
// the report. A ticker that fails is reported and the run moves on.
func (p *Pipeline) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{RunID: uuid.NewString(), StartedAt: p.now()}
	log := slog.With("run", report.RunID)
	log.Info("batch started", "tickers", p.opts.Tickers, "format", p.saver.Extension())

	if err := os.MkdirAll(p.opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	for _, ticker := range p.opts.Tickers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := p.processTicker(ctx, report.RunID, ticker)
		if res.Err != "" {
			log.Error("ticker failed", "ticker", ticker, "err", res.Err)
		}
		report.Results = append(report.Results, res)
	}

	meta := model.Metadata{Tickers: p.opts.Tickers, LastUpdated: p.now().Format(time.RFC3339)}
	if err := writeJSON(filepath.Join(p.opts.DataDir, "metadata.json"), meta); err != nil {
		return report, err
	}
	report.FinishedAt = p.now()

	if err := p.recorder.RecordRun(&recorder.RunEvent{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Tickers:    len(report.Results),
		Charts:     report.TotalCharts(),
		Failures:   report.Failures(),
		Status:     report.Status(),
	}); err != nil {
		log.Warn("record run failed", "err", err)
	}
	if p.notifier != nil {
		if err := p.notifier.Send(ctx, notifier.FormatRunReport(report)); err != nil {
			log.Warn("run report not delivered", "err", err)
		}
	}
	log.Info("batch finished", "charts", report.TotalCharts(), "failures", report.Failures(),
		"status", report.Status(), "took", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return report, nil
}

func (p *Pipeline) processTicker(ctx context.Context, runID, ticker string) model.TickerResult {
	res := model.TickerResult{Ticker: ticker}
	log := slog.With("run", runID, "ticker", ticker)

	tickerDir := filepath.Join(p.opts.DataDir, ticker)
	chartDir := filepath.Join(tickerDir, "charts")
	csvDir := filepath.Join(tickerDir, "csv")
	for _, dir := range []string{chartDir, csvDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			res.Err = err.Error()
			return res
		}
	}

	series, err := p.collector.Collect(ctx, ticker)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	for _, a := range []struct {
		suffix string
		bars   []model.Bar
	}{{"daily", series.DailyBars}, {"5m", series.IntradayBars}} {
		if len(a.bars) == 0 {
			continue
		}
		path := filepath.Join(csvDir, fmt.Sprintf("%s_%s.%s", ticker, a.suffix, p.saver.Extension()))
		if err := p.saver.Save(a.bars, path); err != nil {
			log.Warn("archive failed", "path", path, "err", err)
			continue
		}
		res.Archives = append(res.Archives, path)
		log.Info("archive saved", "path", path, "bars", len(a.bars), "size", fileSize(path))
	}

	if s := stats.Compute(ticker, series.DailyBars); s != nil {
		path := filepath.Join(p.opts.DataDir, "stats_"+ticker+".json")
		if err := stats.Write(path, s); err != nil {
			log.Warn("stats not written", "err", err)
		} else {
			res.Stats = s
			log.Info("stats saved", "path", path, "days", s.Days)
		}
		if err := p.recorder.RecordStats(&recorder.StatsEvent{
			RunID:          runID,
			Ticker:         ticker,
			Days:           s.Days,
			IntradayTotal:  s.Strategies.Intraday.TotalReturn,
			IntradayWin:    s.Strategies.Intraday.WinRate,
			OvernightTotal: s.Strategies.Overnight.TotalReturn,
			OvernightWin:   s.Strategies.Overnight.WinRate,
		}); err != nil {
			log.Warn("record stats failed", "err", err)
		}
	}

	if len(series.IntradayBars) == 0 {
		return res
	}
	if s := stats.ComputeIntraday(ticker, series.IntradayBars, p.renderer.Clock(), p.opts.MinSessionBars); s != nil {
		path := filepath.Join(p.opts.DataDir, "intraday_stats_"+ticker+".json")
		if err := stats.Write(path, s); err != nil {
			log.Warn("intraday stats not written", "err", err)
		} else {
			res.Intraday = s
			log.Info("intraday stats saved", "path", path, "sessions", s.Sessions)
		}
	}
	records, skipped, failed, err := p.RenderSessions(ctx, runID, ticker, series.IntradayBars, chartDir)
	res.Charts, res.Skipped, res.Failed = len(records), skipped, failed
	if err != nil {
		res.Err = err.Error()
		return res
	}
	if len(records) > 0 {
		res.Latest = &records[0]
	}
	if err := writeJSON(filepath.Join(p.opts.DataDir, "charts_"+ticker+".json"), records); err != nil {
		res.Err = err.Error()
	}
	return res
}

// RenderSessions renders one chart per session of bars into dir, using up to
// Workers goroutines. Sessions shorter than MinSessionBars are skipped and a
// failing session is logged and counted. Records come back newest first.
func (p *Pipeline) RenderSessions(ctx context.Context, runID, ticker string, bars []model.Bar,
	dir string) (records []model.ChartRecord, skipped, failed int, err error) {
	sessions := chart.Sessions(bars, p.renderer.Clock())
	results := make([]*model.ChartRecord, len(sessions))
	var failures atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, session := range sessions {
		if len(session) < p.opts.MinSessionBars {
			skipped++
			slog.Debug("short session skipped", "ticker", ticker, "bars", len(session),
				"date", session[0].Time.Format("2006-01-02"))
			continue
		}
		i, session := i, session
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, path, err := p.renderer.RenderFile(session, dir)
			if err != nil {
				failures.Add(1)
				slog.Warn("chart failed", "ticker", ticker, "date", session[0].Time.Format("2006-01-02"), "err", err)
				return nil
			}
			rec := c.Summary.Record()
			results[i] = &rec
			slog.Debug("chart saved", "path", path, "size", humanize.Bytes(uint64(len(c.SVG))))

			if err := p.recorder.RecordChart(&recorder.ChartEvent{
				RunID:     runID,
				Ticker:    ticker,
				Date:      rec.Date,
				Weekday:   rec.Weekday,
				ChangePct: c.Summary.Change,
				Bars:      c.Summary.Bars,
				Filename:  rec.Filename,
				Bytes:     len(c.SVG),
			}); err != nil {
				slog.Warn("record chart failed", "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, skipped, int(failures.Load()), err
	}

	records = make([]model.ChartRecord, 0, len(sessions))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	slog.Info("charts rendered", "ticker", ticker, "charts", len(records), "skipped", skipped, "failed", failures.Load())
	return records, skipped, int(failures.Load()), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}
