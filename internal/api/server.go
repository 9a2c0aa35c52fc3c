// Package api serves the portfolio HTTP API: AI chat, scraping and
// content analysis.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"portfolio-terminal/internal/ioformats"
	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/scrape"
	"portfolio-terminal/pkg/logger"
)

// Scraper is satisfied by *scrape.Service.
type Scraper interface {
	Run(ctx context.Context, rawURL, dataType string) (*scrape.Result, error)
}

// Replier is satisfied by *chat.Relay.
type Replier interface {
	Reply(ctx context.Context, message string) string
}

// Analyzer is satisfied by *classifier.Classifier.
type Analyzer interface {
	Analyze(content, rawURL string) models.Analysis
}

type Deps struct {
	Scraper  Scraper
	Chat     Replier
	Analyzer Analyzer
	Log      *logger.Logger
	// PingMessage is returned by GET /api/ping.
	PingMessage string
	// BatchConcurrency bounds parallel fetches in the batch endpoints.
	BatchConcurrency int
	// FetchTimeout is the per-URL fetch limit. The batch endpoints size
	// their write deadline from it.
	FetchTimeout time.Duration
	Now          func() time.Time
}

type Server struct {
	scraper          Scraper
	chat             Replier
	analyzer         Analyzer
	log              *logger.Logger
	ping             string
	batchConcurrency int
	fetchTimeout     time.Duration
	now              func() time.Time
}

func New(d Deps) *Server {
	s := &Server{
		scraper:          d.Scraper,
		chat:             d.Chat,
		analyzer:         d.Analyzer,
		log:              d.Log,
		ping:             d.PingMessage,
		batchConcurrency: d.BatchConcurrency,
		fetchTimeout:     d.FetchTimeout,
		now:              d.Now,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.ping == "" {
		s.ping = "ping"
	}
	if s.batchConcurrency <= 0 {
		s.batchConcurrency = 10
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = 30 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/ping", s.handlePing)
	mux.HandleFunc("/api/ai-chat", s.handleChat)
	mux.HandleFunc("/api/scrape", s.handleScrape)
	mux.HandleFunc("/api/scrape/batch", s.handleBatch)
	mux.HandleFunc("/api/scrape/upload", s.handleUpload)
	mux.HandleFunc("/api/ai-analyze", s.handleAnalyze)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": s.ping})
}

// POST /api/ai-chat  { "message": "...", "context": "..." }
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	req, ok := validateChat(r.Body)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Error: MsgInvalidChat})
		return
	}
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: s.chat.Reply(r.Context(), req.Message)})
}

// POST /api/scrape  { "url": "https://...", "dataType": "html" }
// With ?format=csv a successful scrape is returned as a CSV download.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	req, err := validateScrape(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ScrapeResponse{Error: err.Error()})
		return
	}

	res, err := s.scraper.Run(r.Context(), req.URL, req.DataType)
	if err != nil {
		s.log.Errorf("scrape %s: %v", req.URL, err)
		writeJSON(w, http.StatusOK, models.ScrapeResponse{Error: err.Error()})
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", ioformats.CSVMimeType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+ioformats.CSVFilename(s.now())+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(res.CSV))
		return
	}
	writeJSON(w, http.StatusOK, res.Response())
}

// POST /api/ai-analyze  { "content": "...", "url": "https://...", "analysisType": "summary" }
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	req, ok := validateAnalyze(r.Body)
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.AnalyzeResponse{Error: MsgInvalidAnalyze})
		return
	}
	analysis := s.analyzer.Analyze(req.Content, req.URL)
	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Success: true, Analysis: &analysis})
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
