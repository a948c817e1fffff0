package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"SessionChart/internal/split"
)

var splitCmd = &cobra.Command{
	Use:   "split [csv]",
	Short: "Split a bar CSV into files of two trading days",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := "qqq5m.csv"
		if len(args) == 1 {
			input = args[0]
		}
		out, _ := cmd.Flags().GetString("output")
		rows, _ := cmd.Flags().GetInt("rows-per-day")
		if rows == 0 {
			rows = cfg.Calendar.SessionBars
		}

		fmt.Printf("Splitting CSV file: %s\n", input)
		fmt.Printf("Output directory: %s\n", out)
		fmt.Printf("Rows per output file: %d\n", rows*2)
		res, err := split.File(input, out, rows)
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			fmt.Printf("Created: %s\n", f)
		}
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Total output files: %d\n", res.Chunks)
		fmt.Printf("Complete (2-day) files: %d\n", res.CompleteChunks)
		if res.IncompleteRows > 0 {
			fmt.Printf("Incomplete file: %d rows\n", res.IncompleteRows)
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().StringP("output", "o", ".", "output directory")
	splitCmd.Flags().Int("rows-per-day", 0, "rows per trading day (default: calendar.session_bars)")
}
