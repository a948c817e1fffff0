package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"SessionChart/internal/barcsv"
	"SessionChart/internal/chart"
	"SessionChart/internal/model"
	"SessionChart/internal/saver"
)

var renderCmd = &cobra.Command{
	Use:   "render [bars]",
	Short: "Render a bar file into one SVG chart",
	Long: `Render every bar of a CSV (columns time, open, high, low, close, Volume)
or of a .json/.parquet archive written by batch into a single chart. Without
--output the file is named after the last session, e.g. "2024-02-13;Tue:+0,29%.svg".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		clk, err := cfg.Calendar.Clock()
		if err != nil {
			return err
		}
		bars, err := loadBars(args[0], clk.Location)
		if err != nil {
			return err
		}
		r, err := chart.NewRenderer(cfg.Style, cfg.Calendar)
		if err != nil {
			return err
		}

		var c *chart.Chart
		var path string
		if strings.HasSuffix(strings.ToLower(output), ".svg") {
			if c, err = r.Render(bars); err != nil {
				return err
			}
			path = output
			err = c.Save(path)
		} else {
			if output == "" {
				output = "."
			}
			if err := os.MkdirAll(output, 0o755); err != nil {
				return err
			}
			c, path, err = r.RenderFile(bars, output)
		}
		if err != nil {
			return err
		}

		s := c.Summary
		arrow := "↑"
		if !s.Up() {
			arrow = "↓"
		}
		fmt.Printf("Last trading day: %s | Change: %s %s\n", s.DateString(), arrow, s.Percent())
		fmt.Printf("Saved %s (%d bars, %d bytes)\n", filepath.Clean(path), len(bars), len(c.SVG))
		return nil
	},
}

// loadBars reads batch archives by extension and anything else as CSV, whose
// offset-less timestamps are taken in loc.
func loadBars(path string, loc *time.Location) ([]model.Bar, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".parquet":
		return saver.Load(path)
	default:
		return barcsv.ReadFile(path, barcsv.Options{Location: loc})
	}
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output .svg file or directory (default: derived name in current dir)")
}
