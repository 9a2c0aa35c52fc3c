package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-terminal/internal/chat"
	"portfolio-terminal/internal/classifier"
	"portfolio-terminal/internal/crawler"
	"portfolio-terminal/internal/mid"
	"portfolio-terminal/internal/scrape"
	"portfolio-terminal/pkg/logger"
)

type fixture struct {
	api      *httptest.Server
	upstream *httptest.Server
	hits     atomic.Int32
}

func newFixture(t *testing.T, upstream http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{}
	f.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(f.upstream.Close)

	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	svc := scrape.NewService(crawler.NewHTTPClient(5*time.Second, 2*time.Second, 0), nil).
		WithClock(func() time.Time { return fixed })
	srv := New(Deps{
		Scraper:     svc,
		Chat:        chat.NewRelay(chat.Options{}, nil),
		Analyzer:    classifier.New(),
		PingMessage: "pong",
		Now:         func() time.Time { return fixed },
	})
	f.api = httptest.NewServer(srv.Routes())
	t.Cleanup(f.api.Close)
	return f
}

func jsonArrayUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`[{"a":1},{"a":2}]`))
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestScrapeJSONEndToEnd(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	resp, out := postJSON(t, f.api.URL+"/api/scrape", `{"url":"`+f.upstream.URL+`","dataType":"json"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["totalItems"])
	assert.Len(t, out["data"], 2)
	assert.Equal(t, "\"a\"\n\"1\"\n\"2\"", out["csvContent"])
}

func TestScrapeRejectsNonHTTPSchemeWithoutFetching(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)
	host := strings.TrimPrefix(f.upstream.URL, "http://")

	for _, u := range []string{"ftp://" + host, "javascript:alert(1)", "mailto:me@example.com", "HTTP://" + host} {
		resp, out := postJSON(t, f.api.URL+"/api/scrape", `{"url":"`+u+`"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, u)
		assert.Equal(t, false, out["success"], u)
		assert.Equal(t, MsgSchemeRequired, out["error"], u)
	}
	assert.Zero(t, f.hits.Load())
}

func TestScrapeRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)
	cases := []string{
		`{}`,
		`{"url":""}`,
		`{"url":"not a url"}`,
		`{"url":42}`,
		`{"url":"https://example.com","dataType":"xml"}`,
		`not json`,
	}
	for _, body := range cases {
		resp, out := postJSON(t, f.api.URL+"/api/scrape", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, MsgInvalidURL, out["error"], body)
	}
	assert.Zero(t, f.hits.Load())
}

func TestScrapeUpstreamFailureIsData(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resp, out := postJSON(t, f.api.URL+"/api/scrape", `{"url":"`+f.upstream.URL+`"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Failed to scrape HTML: HTTP 404: Not Found", out["error"])
}

func TestScrapeCSVFormat(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	resp, err := http.Post(f.api.URL+"/api/scrape?format=csv", "application/json",
		strings.NewReader(`{"url":"`+f.upstream.URL+`/data.json"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Equal(t, "text/csv;charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "scraped_data_2024-05-06.csv")
	assert.Equal(t, "\"a\"\n\"1\"\n\"2\"", buf.String())
}

func TestChatDemoModeEchoesQuestion(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	resp, out := postJSON(t, f.api.URL+"/api/ai-chat", `{"message":"Do you know Go?"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out["response"], "Demo Mode")
	assert.Contains(t, out["response"], "Do you know Go?")
}

func TestChatValidation(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)
	long := strings.Repeat("x", 1001)
	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"` + long + `"}`, `{"message":5}`} {
		resp, out := postJSON(t, f.api.URL+"/api/ai-chat", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, MsgInvalidChat, out["error"])
	}

	resp, _ := postJSON(t, f.api.URL+"/api/ai-chat", `{"message":"`+strings.Repeat("x", 1000)+`","context":"ignored"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	resp, out := postJSON(t, f.api.URL+"/api/ai-analyze",
		`{"content":"Acme Inc builds Python tools in London. It provides data services for teams.","url":"https://acme.example"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	analysis, ok := out["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, analysis["entities"], "Python")
	assert.NotEmpty(t, analysis["summary"])

	for _, body := range []string{`{"content":"","url":"https://a.example"}`, `{"content":"x","url":"nope"}`, `{"content":"x","url":"https://a.example","analysisType":"all"}`} {
		resp, out := postJSON(t, f.api.URL+"/api/ai-analyze", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, MsgInvalidAnalyze, out["error"], body)
	}
}

func TestPingHealthAndMethods(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	resp, err := http.Get(f.api.URL + "/api/ping")
	require.NoError(t, err)
	var ping map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ping))
	resp.Body.Close()
	assert.Equal(t, map[string]string{"message": "pong"}, ping)

	resp, err = http.Get(f.api.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(f.api.URL + "/api/scrape")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestBatchKeepsInputOrder(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	body := `{"urls":["` + f.upstream.URL + `/api/a","ftp://nope","` + f.upstream.URL + `/api/b"],"dataType":"json"}`
	resp, err := http.Post(f.api.URL+"/api/scrape/batch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var items []BatchItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 3)
	assert.True(t, items[0].Success)
	assert.Equal(t, 2, items[0].TotalItems)
	assert.False(t, items[1].Success)
	assert.Equal(t, MsgSchemeRequired, items[1].Error)
	assert.Equal(t, f.upstream.URL+"/api/b", items[2].URL)
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestBatchOutlivesServerWriteTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		jsonArrayUpstream(w, r)
	}))
	defer upstream.Close()

	srv := New(Deps{
		Scraper:      scrape.NewService(crawler.NewHTTPClient(5*time.Second, 2*time.Second, 0), nil),
		Chat:         chat.NewRelay(chat.Options{}, nil),
		Analyzer:     classifier.New(),
		FetchTimeout: 5 * time.Second,
	})
	ts := httptest.NewUnstartedServer(mid.Chain(srv.Routes(), mid.RequestID(), mid.Logger(logger.Nop())))
	ts.Config.WriteTimeout = 100 * time.Millisecond
	ts.Start()
	defer ts.Close()

	body := `{"urls":["` + upstream.URL + `/api/slow"],"dataType":"json"}`
	resp, err := http.Post(ts.URL+"/api/scrape/batch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var items []BatchItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.True(t, items[0].Success)
}

func TestBatchRejectsEmpty(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)
	resp, _ := postJSON(t, f.api.URL+"/api/scrape/batch", `{"urls":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadStreamsNDJSON(t *testing.T) {
	f := newFixture(t, jsonArrayUpstream)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "targets.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("url\n" + f.upstream.URL + "/one.json\n" + f.upstream.URL + "/two.json\n"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, f.api.URL+"/api/scrape/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	var urls []string
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		var item BatchItem
		require.NoError(t, json.Unmarshal(sc.Bytes(), &item))
		assert.True(t, item.Success)
		urls = append(urls, item.URL)
	}
	sort.Strings(urls)
	assert.Equal(t, []string{f.upstream.URL + "/one.json", f.upstream.URL + "/two.json"}, urls)
}
