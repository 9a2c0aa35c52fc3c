package ioformats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-terminal/internal/models"
)

func TestToCSVJSONRows(t *testing.T) {
	recs := []*models.Record{
		models.NewRecord().Set("a", json.Number("1")),
		models.NewRecord().Set("a", json.Number("2")),
	}
	assert.Equal(t, "\"a\"\n\"1\"\n\"2\"", ToCSV(recs))
}

func TestToCSVEmpty(t *testing.T) {
	assert.Equal(t, "", ToCSV(nil))
}

func TestToCSVUnionOfColumns(t *testing.T) {
	recs := []*models.Record{
		models.NewRecord().Set("name", "x").Set("n", 1),
		models.NewRecord().Set("extra", true).Set("name", "y"),
	}
	want := strings.Join([]string{
		`"name","n","extra"`,
		`"x","1",""`,
		`"y","","true"`,
	}, "\n")
	assert.Equal(t, want, ToCSV(recs))
}

func TestFlatten(t *testing.T) {
	quality := models.NewRecord().
		Set("hasStructuredData", true).
		Set("hasMainContent", false).
		Set("hasArticles", false).
		Set("hasAIInsights", true).
		Set("contentRichness", 12)
	links := []*models.Record{
		models.NewRecord().Set("url", "/a").Set("text", "A"),
		models.NewRecord().Set("url", "/b").Set("text", ""),
	}
	rec := models.NewRecord().
		Set("tags", []string{"go", "csv"}).
		Set("mixed", []any{json.Number("1.50"), nil, true}).
		Set("links", links).
		Set("empty", []any{}).
		Set("contentQuality", quality).
		Set("aiInsights", models.NewRecord().Set("summary", `say "hi"`))

	flat := Flatten(rec)
	assert.Equal(t, []string{
		"tags", "mixed", "links", "empty",
		"contentQuality_hasStructuredData", "contentQuality_hasMainContent",
		"contentQuality_hasArticles", "contentQuality_contentRichness",
		"aiInsights",
	}, flat.Keys())

	get := func(k string) any { v, _ := flat.Get(k); return v }
	assert.Equal(t, "go | csv", get("tags"))
	assert.Equal(t, "1.5 |  | true", get("mixed"))
	assert.Equal(t, `A | {"url":"/b","text":""}`, get("links"))
	assert.Equal(t, "", get("empty"))
	assert.Equal(t, true, get("contentQuality_hasStructuredData"))
	assert.Equal(t, 12, get("contentQuality_contentRichness"))
	assert.Equal(t, `{"summary":"say \"hi\""}`, get("aiInsights"))
}

func TestToCSVQuotesAndTruncates(t *testing.T) {
	long := strings.Repeat("x", 600)
	recs := []*models.Record{models.NewRecord().Set("q", `he said "go"`).Set("long", long)}
	lines := strings.Split(ToCSV(recs), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"he said ""go""","`+strings.Repeat("x", 500)+`..."`, lines[1])
}

func TestToCSVRoundTrip(t *testing.T) {
	recs := []*models.Record{
		models.NewRecord().Set("id", 1).Set("title", "Alpha").Set("ok", true),
		models.NewRecord().Set("id", 2).Set("title", "Beta, with comma").Set("ok", false),
	}
	out := ToCSV(recs)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	headers := splitNaive(lines[0])
	assert.Equal(t, recs[0].Keys(), headers)

	for i, line := range lines[1:] {
		cells := splitQuoted(line)
		require.Len(t, cells, len(headers))
		for j, h := range headers {
			v, _ := recs[i].Get(h)
			assert.Equal(t, scalarString(v), cells[j])
		}
	}
}

func TestCSVFilename(t *testing.T) {
	at := time.Date(2024, 7, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "scraped_data_2024-07-09.csv", CSVFilename(at))
}

func TestWriteCSVFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	path, err := WriteCSVFile(dir, "\"a\"\n\"1\"", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scraped_data_2024-01-02.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"a\"\n\"1\"", string(data))
}

func splitNaive(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return parts
}

// splitQuoted splits on the "," between quoted cells, so commas inside
// values survive.
func splitQuoted(line string) []string {
	line = strings.TrimSuffix(strings.TrimPrefix(line, `"`), `"`)
	return strings.Split(line, `","`)
}
