package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"IVV", "QQQM", "VUG"}, cfg.Tickers)
	assert.Equal(t, "public/data", cfg.DataDir)
	assert.Equal(t, "csv", cfg.SaveFormat)
	assert.Equal(t, 10, cfg.MinSessionBars)
	assert.Equal(t, 60, cfg.IntradayDays)
	assert.Equal(t, "0 30 22 * * 1-5", cfg.Schedule.DailyCron)
	assert.Equal(t, 12, cfg.Style.BarSpacing)
	assert.Equal(t, "15:55", cfg.Calendar.SessionClose)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAMLKeepsNestedDefaults(t *testing.T) {
	path := writeConfig(t, `
tickers: [SPY]
save_format: parquet
workers: 2
style:
  price_height: 600
  palette:
    up: "#00aa00"
calendar:
  tick_interval_minutes: 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"SPY"}, cfg.Tickers)
	assert.Equal(t, "parquet", cfg.SaveFormat)
	assert.Equal(t, 600, cfg.Style.PriceHeight)
	assert.Equal(t, 150, cfg.Style.VolumeHeight)
	assert.Equal(t, "#00aa00", cfg.Style.Palette.Up)
	assert.Equal(t, "#ef5350", cfg.Style.Palette.Down)
	assert.Equal(t, 60, cfg.Calendar.TickIntervalMinutes)
	assert.Equal(t, "America/New_York", cfg.Calendar.Timezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SESSIONCHART_TICKERS", "qqq, spy,")
	t.Setenv("SESSIONCHART_DATA_DIR", "/tmp/out")
	t.Setenv("SESSIONCHART_SAVE_FORMAT", "json")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("CRON_DAILY", "0 0 23 * * *")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("SQLITE_PATH", "/tmp/runs.db")
	t.Setenv("CHART_DIR", "charts")
	t.Setenv("OUTPUT_FILE", "out/charts.json")

	cfg, err := Load(writeConfig(t, "tickers: [IVV]\ndata_dir: ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"QQQ", "SPY"}, cfg.Tickers)
	assert.Equal(t, "/tmp/out", cfg.DataDir)
	assert.Equal(t, "json", cfg.SaveFormat)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, "0 0 23 * * *", cfg.Schedule.DailyCron)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "/tmp/runs.db", cfg.Database.SQLitePath)
	assert.Equal(t, "charts", cfg.Index.ChartDir)
	assert.Equal(t, "out/charts.json", cfg.Index.OutputFile)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "tickers: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"format":   func(c *Config) { c.SaveFormat = "xlsx" },
		"ticker":   func(c *Config) { c.Tickers = []string{"../etc"} },
		"workers":  func(c *Config) { c.Workers = -1 },
		"days":     func(c *Config) { c.IntradayDays = 61 },
		"style":    func(c *Config) { c.Style.BarSpacing = 0 },
		"calendar": func(c *Config) { c.Calendar.SessionClose = "late" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path(""))
	t.Setenv("CONFIG_PATH", "/etc/sc.yaml")
	assert.Equal(t, "/etc/sc.yaml", Path(""))
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))
}
