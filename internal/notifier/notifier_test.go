package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SessionChart/internal/model"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	require.NoError(t, n.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestTelegramNotifier_Retry(t *testing.T) {
	backoffUnit = time.Millisecond
	t.Cleanup(func() { backoffUnit = time.Second })

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1", "")
	n.APIBase = srv.URL
	require.NoError(t, n.SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-100)
	err := n.SendWithRetry(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "all 2 attempts failed")
}

func TestFormatRunReport(t *testing.T) {
	start := time.Date(2024, 2, 13, 22, 30, 0, 0, time.UTC)
	r := &model.RunReport{
		RunID:      "abc",
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Results: []model.TickerResult{
			{
				Ticker:  "QQQ",
				Charts:  40,
				Skipped: 1,
				Latest:  &model.ChartRecord{Date: "2024-02-13", Weekday: "Tue", Change: "+0.29%"},
				Stats: &model.DailyStats{Strategies: model.Strategies{
					Intraday:  model.StrategyStats{TotalReturn: 0.5, WinRate: 0.55},
					Overnight: model.StrategyStats{TotalReturn: 1.2, WinRate: 0.6},
				}},
			},
			{Ticker: "VUG", Err: "fetch <failed>"},
		},
	}
	msg := FormatRunReport(r)
	assert.Contains(t, msg, "⚠️ <b>SessionChart run</b> | 2024-02-13 22:30")
	assert.Contains(t, msg, "Charts: 40 | Failures: 1 | Took: 1m30s")
	assert.Contains(t, msg, "<b>QQQ</b>: 40 charts, 1 short sessions skipped")
	assert.Contains(t, msg, "Last: 2024-02-13 (Tue) +0.29%")
	assert.Contains(t, msg, "Intraday: +50.0% total, 55% wins | Overnight: +120.0% total, 60% wins")
	assert.Contains(t, msg, "<b>VUG</b> failed: fetch &lt;failed&gt;")
}
