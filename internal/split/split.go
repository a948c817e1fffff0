// Package split cuts a bar CSV into files of two trading days each.
package split

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Result summarises a split.
type Result struct {
	Chunks         int
	CompleteChunks int
	IncompleteRows int
	Files          []string
}

// File splits input into outDir. Each output holds the header plus
// 2*rowsPerDay data rows and is named after the date of its last row, or
// output_NNN.csv when that date cannot be read. Blank and # lines are dropped.
func File(input, outDir string, rowsPerDay int) (Result, error) {
	var res Result
	if rowsPerDay <= 0 {
		return res, fmt.Errorf("rows per day must be positive, got %d", rowsPerDay)
	}
	header, rows, err := readLines(input)
	if err != nil {
		return res, err
	}

	perChunk := rowsPerDay * 2
	res.Chunks = (len(rows) + perChunk - 1) / perChunk
	res.CompleteChunks = len(rows) / perChunk
	res.IncompleteRows = len(rows) % perChunk

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	for i, n := 0, 1; i < len(rows); i, n = i+perChunk, n+1 {
		chunk := rows[i:min(i+perChunk, len(rows))]
		path := filepath.Join(outDir, chunkName(chunk, n))
		if err := writeChunk(path, header, chunk); err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}
	return res, nil
}

func readLines(path string) (string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%s is empty or has no header", path)
	}
	header := strings.TrimSpace(sc.Text())
	if header == "" {
		return "", nil, fmt.Errorf("%s is empty or has no header", path)
	}

	var rows []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return "", nil, errors.New("no data rows")
	}
	return header, rows, nil
}

func chunkName(rows []string, n int) string {
	last := rows[len(rows)-1]
	field, _, _ := strings.Cut(last, ",")
	if date := datePrefix.FindString(strings.TrimSpace(field)); date != "" {
		return date + ".csv"
	}
	return fmt.Sprintf("output_%03d.csv", n)
}

func writeChunk(path, header string, rows []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	w.WriteString(header + "\n")
	for _, r := range rows {
		w.WriteString(r + "\n")
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
