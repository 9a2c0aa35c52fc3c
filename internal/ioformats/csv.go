package ioformats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/textutil"
)

const (
	CSVMimeType = "text/csv;charset=utf-8"

	maxCellLen   = 500
	arraySep     = " | "
	qualityMarker = "hasStructuredData"
)

var qualityColumns = []string{"hasStructuredData", "hasMainContent", "hasArticles", "contentRichness"}

// ToCSV flattens records and renders them as CSV. Columns are the union of
// flattened keys in first-seen order; every cell (header included) is quoted
// with inner quotes doubled, and cells longer than 500 characters are cut
// with "...". Rows are joined by "\n" without a trailing newline.
func ToCSV(records []*models.Record) string {
	if len(records) == 0 {
		return ""
	}

	flat := make([]*models.Record, len(records))
	for i, r := range records {
		flat[i] = Flatten(r)
	}

	seen := map[string]struct{}{}
	var headers []string
	for _, f := range flat {
		for _, k := range f.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			headers = append(headers, k)
		}
	}

	lines := make([]string, 0, len(flat)+1)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = quote(h)
	}
	lines = append(lines, strings.Join(cells, ","))

	for _, f := range flat {
		for i, h := range headers {
			v, _ := f.Get(h)
			cells[i] = quote(textutil.Ellipsize(cellString(v), maxCellLen))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// Flatten turns one record into a single level of scalar values. Arrays of
// scalars are joined with " | ", arrays of objects by their best label,
// contentQuality-shaped objects expand into four columns and any other
// object becomes JSON.
func Flatten(r *models.Record) *models.Record {
	out := models.NewRecord()
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		switch t := v.(type) {
		case []string:
			out.Set(k, strings.Join(t, arraySep))
		case []*models.Record:
			out.Set(k, joinObjects(toAny(t)))
		case []any:
			if len(t) == 0 {
				out.Set(k, "")
			} else if isObject(t[0]) {
				out.Set(k, joinObjects(t))
			} else {
				out.Set(k, joinScalars(t, arraySep))
			}
		case *models.Record:
			if t.Has(qualityMarker) {
				for _, col := range qualityColumns {
					cv, _ := t.Get(col)
					out.Set(k+"_"+col, cv)
				}
			} else {
				out.Set(k, toJSON(t))
			}
		default:
			out.Set(k, v)
		}
	}
	return out
}

func joinObjects(items []any) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = objectLabel(it)
	}
	return strings.Join(labels, arraySep)
}

func objectLabel(v any) string {
	if rec, ok := v.(*models.Record); ok {
		for _, field := range []string{"name", "text", "title", "type"} {
			if fv, _ := rec.Get(field); models.Truthy(fv) {
				return scalarString(fv)
			}
		}
	}
	return toJSON(v)
}

func joinScalars(items []any, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = scalarString(it)
	}
	return strings.Join(parts, sep)
}

// cellString renders a flattened value; nil is an empty cell.
func cellString(v any) string {
	if v == nil {
		return ""
	}
	return scalarString(v)
}

// scalarString converts v the way string coercion does in the browser:
// nil becomes "", nested arrays join with ",", objects stay opaque.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return models.FormatNumber(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return models.FormatNumber(f)
	case []any:
		return joinScalars(t, ",")
	case []string:
		return strings.Join(t, ",")
	case *models.Record:
		return "[object Object]"
	}
	return fmt.Sprint(v)
}

func isObject(v any) bool {
	switch v.(type) {
	case nil, *models.Record, []any, []string, []*models.Record:
		return true
	}
	return false
}

func toAny(recs []*models.Record) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}

func toJSON(v any) string {
	b, err := models.MarshalJSON(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVFilename names a download the way the browser client does.
func CSVFilename(now time.Time) string {
	return "scraped_data_" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSVFile stores content under dir with the dated download name.
func WriteCSVFile(dir, content string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, CSVFilename(now))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}
