package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio-terminal/internal/ioformats"
	"portfolio-terminal/internal/models"
)

const (
	maxBatchURLs = 100
	// writeSlack covers encoding and sending a batch once every fetch is done.
	writeSlack = 30 * time.Second
)

type batchReq struct {
	URLs     []string `json:"urls"`
	DataType string   `json:"dataType,omitempty"`
}

// BatchItem is one line of a batch or upload result.
type BatchItem struct {
	URL string `json:"url"`
	models.ScrapeResponse
}

// ScrapeItem validates and scrapes one URL. It never fails: errors become a
// success:false item.
func ScrapeItem(ctx context.Context, sc Scraper, raw, dataType string) BatchItem {
	u, err := ValidateScrapeURL(raw)
	if err != nil {
		return BatchItem{URL: raw, ScrapeResponse: models.ScrapeResponse{Error: err.Error()}}
	}
	res, err := sc.Run(ctx, u, dataType)
	if err != nil {
		return BatchItem{URL: u, ScrapeResponse: models.ScrapeResponse{Error: err.Error()}}
	}
	return BatchItem{URL: u, ScrapeResponse: res.Response()}
}

// extendWriteDeadline lifts the server's WriteTimeout for a batch of n URLs:
// one fetch timeout per round of concurrent fetches, plus writeSlack.
func (s *Server) extendWriteDeadline(w http.ResponseWriter, n int) {
	rounds := (n + s.batchConcurrency - 1) / s.batchConcurrency
	budget := time.Duration(rounds)*s.fetchTimeout + writeSlack
	err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(budget))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.log.Warnf("extend write deadline: %v", err)
	}
}

// POST /api/scrape/batch  { "urls": ["https://...", "..."], "dataType": "html" }
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req batchReq
	if err := decodeBody(r.Body, &req); err != nil || len(req.URLs) == 0 || len(req.URLs) > maxBatchURLs {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.DataType == "" {
		req.DataType = models.DataTypeHTML
	}
	if !validDataType(req.DataType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	s.extendWriteDeadline(w, len(req.URLs))
	results := make([]BatchItem, len(req.URLs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.batchConcurrency)
	for i, u := range req.URLs {
		g.Go(func() error {
			results[i] = ScrapeItem(ctx, s.scraper, u, req.DataType)
			return nil
		})
	}
	_ = g.Wait()
	writeJSON(w, http.StatusOK, results)
}

// POST /api/scrape/upload (multipart file=...) -> NDJSON stream, one line per URL
// in completion order.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart parse error"})
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file part 'file' required"})
		return
	}
	defer f.Close()

	urls, err := ioformats.ParseURLs(f, hdr.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	dataType := r.FormValue("dataType")
	if dataType == "" {
		dataType = models.DataTypeHTML
	}
	if !validDataType(dataType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	s.extendWriteDeadline(w, len(urls))
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	var mu sync.Mutex
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.batchConcurrency)
	for _, u := range urls {
		g.Go(func() error {
			item := ScrapeItem(ctx, s.scraper, u, dataType)
			mu.Lock()
			defer mu.Unlock()
			if err := enc.Encode(item); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Errorf("upload stream: %v", err)
	}
}
