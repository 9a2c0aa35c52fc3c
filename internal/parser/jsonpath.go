package parser

import (
	"bytes"
	"fmt"

	"portfolio-terminal/internal/models"
)

const maxJSONItems = 100

var utf8BOM = []byte("\xef\xbb\xbf")

// ExtractJSON finds the interesting array in a JSON document. A root array
// is used directly. For a root object the first array-valued key (in key
// enumeration order) wins; with no such key the object itself is the single
// row. Other roots yield nothing. At most 100 rows are returned and
// non-object elements are wrapped as {"value": element}.
func ExtractJSON(data []byte) ([]*models.Record, error) {
	root, err := models.DecodeJSON(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case *models.Record:
		items = []any{v}
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			if arr, ok := val.([]any); ok {
				items = arr
				break
			}
		}
	default:
		return nil, nil
	}

	if len(items) > maxJSONItems {
		items = items[:maxJSONItems]
	}
	out := make([]*models.Record, 0, len(items))
	for _, it := range items {
		if rec, ok := it.(*models.Record); ok {
			out = append(out, rec)
			continue
		}
		out = append(out, models.NewRecord().Set("value", it))
	}
	return out, nil
}
