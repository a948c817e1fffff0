package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"SessionChart/internal/chart"
	"SessionChart/internal/saver"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Tickers        []string       `yaml:"tickers"`
	DataDir        string         `yaml:"data_dir"`
	SaveFormat     string         `yaml:"save_format"`
	MinSessionBars int            `yaml:"min_session_bars"`
	Workers        int            `yaml:"workers"`
	IntradayDays   int            `yaml:"intraday_days"`
	LogLevel       string         `yaml:"log_level"`
	Proxy          string         `yaml:"proxy"`
	Calendar       chart.Calendar `yaml:"calendar"`
	Style          chart.Style    `yaml:"style"`
	Index          struct {
		ChartDir   string `yaml:"chart_dir"`
		OutputFile string `yaml:"output_file"`
	} `yaml:"index"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Path picks the config file: the explicit flag value, then CONFIG_PATH,
// then DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error. Style and calendar start from their defaults
// so a partial YAML block only overrides what it names.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Style:    chart.DefaultStyle(),
		Calendar: chart.DefaultCalendar(),
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SESSIONCHART_TICKERS"); v != "" {
		cfg.Tickers = splitList(v)
	}
	if v := os.Getenv("SESSIONCHART_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SESSIONCHART_SAVE_FORMAT"); v != "" {
		cfg.SaveFormat = v
	}
	if v := os.Getenv("SESSIONCHART_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SESSIONCHART_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("CHART_DIR"); v != "" {
		cfg.Index.ChartDir = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		cfg.Index.OutputFile = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = []string{"IVV", "QQQM", "VUG"}
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "public/data"
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = "csv"
	}
	if cfg.MinSessionBars == 0 {
		cfg.MinSessionBars = 10
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.IntradayDays == 0 {
		cfg.IntradayDays = 60
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Index.ChartDir == "" {
		cfg.Index.ChartDir = "data/chart/"
	}
	if cfg.Index.OutputFile == "" {
		cfg.Index.OutputFile = "public/charts.json"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	for _, t := range c.Tickers {
		if strings.TrimSpace(t) == "" || strings.ContainsAny(t, `/\`) {
			return fmt.Errorf("tickers: invalid symbol %q", t)
		}
	}
	if saver.NewBarSaver(c.SaveFormat) == nil {
		return fmt.Errorf("save_format %q not supported (use: %s)", c.SaveFormat, strings.Join(saver.Formats(), ", "))
	}
	if c.MinSessionBars < 1 {
		return fmt.Errorf("min_session_bars must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.IntradayDays < 1 || c.IntradayDays > 60 {
		return fmt.Errorf("intraday_days must be between 1 and 60")
	}
	if err := c.Style.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	return nil
}

// TelegramEnabled reports whether run reports can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
