package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	r := NewRecord().Set("zeta", 1).Set("alpha", 2).Set("mid", 3)
	r.Set("zeta", 4)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())
	v, ok := r.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestRecordIndexKeysComeFirst(t *testing.T) {
	r := NewRecord().Set("b", 1).Set("10", 2).Set("a", 3).Set("2", 4).Set("01", 5)
	assert.Equal(t, []string{"2", "10", "b", "a", "01"}, r.Keys())
}

func TestDecodeJSONPreservesOrder(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"total":2,"items":[{"b":1,"a":"x"}],"ok":true,"none":null}`))
	require.NoError(t, err)

	rec, ok := v.(*Record)
	require.True(t, ok)
	assert.Equal(t, []string{"total", "items", "ok", "none"}, rec.Keys())

	items, _ := rec.Get("items")
	arr := items.([]any)
	require.Len(t, arr, 1)
	assert.Equal(t, []string{"b", "a"}, arr[0].(*Record).Keys())

	total, _ := rec.Get("total")
	assert.Equal(t, json.Number("2"), total)
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`[1] [2]`))
	require.Error(t, err)

	_, err = DecodeJSON(strings.NewReader(`<html>`))
	require.Error(t, err)
}

func TestRecordMarshalJSON(t *testing.T) {
	r := NewRecord().
		Set("title", "Q&A <intro>").
		Set("tags", []string{"a", "b"}).
		Set("nested", NewRecord().Set("y", 1).Set("x", nil))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Q&A <intro>","tags":["a","b"],"nested":{"y":1,"x":null}}`, string(b))
}

func TestContentInsightsRecord(t *testing.T) {
	ci := ContentInsights{Summary: "s", RelevanceScore: 3, ContentType: "Blog/Article", WordCount: 9, ReadabilityScore: 1}
	rec := ci.Record()
	assert.Equal(t, []string{"summary", "keywords", "relevanceScore", "contentType", "wordCount", "readabilityScore"}, rec.Keys())

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"keywords":[]`)
}

func TestRecordUnmarshalJSON(t *testing.T) {
	var recs []*Record
	require.NoError(t, json.Unmarshal([]byte(`[{"b":1,"a":{"x":true}},{"2":"two","1":"one"}]`), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"b", "a"}, recs[0].Keys())
	assert.Equal(t, []string{"1", "2"}, recs[1].Keys())

	out, err := MarshalJSON(recs[0])
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"x":true}}`, string(out))

	var r Record
	require.Error(t, json.Unmarshal([]byte(`[1]`), &r))
}
