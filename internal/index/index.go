// Package index builds the JSON manifest of rendered chart files.
package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	namePattern       = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2});([A-Za-z]{3}):([+-]?\d+,\d{2}%)$`)
	legacyNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}):([+-]?\d+,\d{2}%)$`)
)

// Entry is one chart in the manifest. Weekday is null for files named
// without one.
type Entry struct {
	Filename string  `json:"filename"`
	Date     string  `json:"date"`
	Weekday  *string `json:"weekday"`
	Change   string  `json:"change"`
}

// ParseFilename extracts date, weekday and change from a chart file name such
// as "2024-02-13;Tue:+0,29%.svg". The older "2024-02-13:+0,29%.svg" form is
// accepted with a nil weekday.
func ParseFilename(name string) (Entry, bool) {
	base := name
	if i := strings.LastIndex(base, ".svg"); i >= 0 {
		base = base[:i]
	}
	if m := namePattern.FindStringSubmatch(base); m != nil {
		weekday := m[2]
		return Entry{Filename: name, Date: m[1], Weekday: &weekday, Change: m[3]}, true
	}
	if m := legacyNamePattern.FindStringSubmatch(base); m != nil {
		return Entry{Filename: name, Date: m[1], Change: m[2]}, true
	}
	return Entry{}, false
}

// Build scans dir for *.svg files and returns the parseable ones ordered by
// date. A missing or empty directory yields an empty result and a warning.
func Build(dir string) []Entry {
	info, err := os.Stat(dir)
	if err != nil {
		slog.Warn("chart directory does not exist", "dir", dir)
		return nil
	}
	if !info.IsDir() {
		slog.Warn("chart path is not a directory", "dir", dir)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil || len(files) == 0 {
		slog.Warn("no svg files found", "dir", dir)
		return nil
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		e, ok := ParseFilename(name)
		if !ok {
			slog.Warn("could not parse chart filename", "file", name)
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

// Write stores entries as indented JSON at path, creating parent directories.
func Write(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Generate builds the index of dir and writes it to path.
func Generate(dir, path string) ([]Entry, error) {
	entries := Build(dir)
	if err := Write(path, entries); err != nil {
		return nil, err
	}
	slog.Info("index generated", "file", path, "charts", len(entries))
	return entries, nil
}
