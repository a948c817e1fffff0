package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SessionChart/internal/model"
)

// FormatRunReport formats a batch run into an HTML Telegram message.
func FormatRunReport(r *model.RunReport) string {
	var b strings.Builder

	icon := "✅"
	switch r.Status() {
	case "PARTIAL":
		icon = "⚠️"
	case "FAILED":
		icon = "❌"
	}
	b.WriteString(fmt.Sprintf("%s <b>SessionChart run</b> | %s\n", icon, r.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n", html.EscapeString(r.RunID)))
	b.WriteString(fmt.Sprintf("Charts: %d | Failures: %d | Took: %s\n\n",
		r.TotalCharts(), r.Failures(), r.FinishedAt.Sub(r.StartedAt).Round(time.Second)))

	for _, t := range r.Results {
		b.WriteString(fmt.Sprintf("📈 <b>%s</b>", html.EscapeString(t.Ticker)))
		if t.Err != "" {
			b.WriteString(fmt.Sprintf(" failed: %s\n", html.EscapeString(t.Err)))
			continue
		}
		b.WriteString(fmt.Sprintf(": %d charts", t.Charts))
		if t.Skipped > 0 {
			b.WriteString(fmt.Sprintf(", %d short sessions skipped", t.Skipped))
		}
		if t.Failed > 0 {
			b.WriteString(fmt.Sprintf(", %d failed", t.Failed))
		}
		b.WriteString("\n")
		if t.Latest != nil {
			b.WriteString(fmt.Sprintf("   Last: %s (%s) %s\n", t.Latest.Date, t.Latest.Weekday, t.Latest.Change))
		}
		if s := t.Stats; s != nil {
			b.WriteString(fmt.Sprintf("   Intraday: %+.1f%% total, %.0f%% wins | Overnight: %+.1f%% total, %.0f%% wins\n",
				s.Strategies.Intraday.TotalReturn*100, s.Strategies.Intraday.WinRate*100,
				s.Strategies.Overnight.TotalReturn*100, s.Strategies.Overnight.WinRate*100))
		}
	}
	return b.String()
}
