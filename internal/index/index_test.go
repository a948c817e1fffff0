package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SessionChart/internal/chart"
)

func TestParseFilename(t *testing.T) {
	e, ok := ParseFilename("2024-02-13;Tue:+0,29%.svg")
	require.True(t, ok)
	assert.Equal(t, "2024-02-13", e.Date)
	require.NotNil(t, e.Weekday)
	assert.Equal(t, "Tue", *e.Weekday)
	assert.Equal(t, "+0,29%", e.Change)
	assert.Equal(t, "2024-02-13;Tue:+0,29%.svg", e.Filename)

	e, ok = ParseFilename("2024-02-14:-1,05%.svg")
	require.True(t, ok)
	assert.Nil(t, e.Weekday)
	assert.Equal(t, "-1,05%", e.Change)

	for _, bad := range []string{"chart.svg", "2024-02-13;Tuesday:+0,29%.svg", "2024-02-13;Tue:+0.29%.svg", "2024-2-13;Tue:+0,29%.svg"} {
		_, ok := ParseFilename(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseFilename_RoundTripsSummary(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	for _, change := range []float64{0.29, -1.05, 0, 12.5, -0.004, 3.14159} {
		s := chart.Summary{Date: time.Date(2024, 2, 13, 15, 55, 0, 0, est), Change: change}
		e, ok := ParseFilename(s.Filename())
		require.True(t, ok, s.Filename())
		assert.Equal(t, s.DateString(), e.Date)
		assert.Equal(t, s.Weekday(), *e.Weekday)
		assert.Equal(t, s.Percent(), e.Change)
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("<svg/>"), 0o644))
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"2024-02-14;Wed:-0,10%.svg",
		"2024-02-12;Mon:+1,00%.svg",
		"2024-02-13:+0,29%.svg",
		"notes.svg",
		"2024-02-15;Thu:+0,50%.txt",
	)

	entries := Build(dir)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"2024-02-12", "2024-02-13", "2024-02-14"},
		[]string{entries[0].Date, entries[1].Date, entries[2].Date})
}

func TestBuild_MissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Build(dir))
	assert.Empty(t, Build(filepath.Join(dir, "nope")))

	file := filepath.Join(dir, "file.svg")
	touch(t, dir, "file.svg")
	assert.Empty(t, Build(file))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2024-02-13;Tue:+0,29%.svg", "2024-02-14:-1,05%.svg")
	out := filepath.Join(t.TempDir(), "public", "charts.json")

	entries, err := Generate(dir, out)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"filename\": ")
	assert.Contains(t, string(data), `"weekday": null`)

	var back []map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Tue", back[0]["weekday"])
	assert.Equal(t, "+0,29%", back[0]["change"])
}

func TestWrite_Empty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "charts.json")
	require.NoError(t, Write(out, nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
