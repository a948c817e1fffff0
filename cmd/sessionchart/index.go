package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"SessionChart/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Write the JSON manifest of chart files in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("chart-dir")
		if dir == "" {
			dir = cfg.Index.ChartDir
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = cfg.Index.OutputFile
		}

		entries, err := index.Generate(dir, out)
		if err != nil {
			return err
		}
		fmt.Printf("Generated '%s' with %d charts.\n", out, len(entries))
		if len(entries) > 0 {
			first, last := entries[0], entries[len(entries)-1]
			fmt.Printf("First chart: %s (%s)\n", first.Date, first.Change)
			fmt.Printf("Last chart: %s (%s)\n", last.Date, last.Change)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().String("chart-dir", "", "directory of .svg charts (default: index.chart_dir / $CHART_DIR)")
	indexCmd.Flags().StringP("output", "o", "", "manifest path (default: index.output_file / $OUTPUT_FILE)")
}
