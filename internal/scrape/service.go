// Package scrape runs one scrape end to end: fetch, extract, score, CSV.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-terminal/internal/classifier"
	"portfolio-terminal/internal/crawler"
	"portfolio-terminal/internal/ioformats"
	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/parser"
	"portfolio-terminal/pkg/logger"
)

const PreviewSize = 5

var ErrNoData = errors.New("No data found to scrape from the provided URL")

// Fetcher is satisfied by *crawler.HTTPClient.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, accept crawler.Accept) (*crawler.Response, error)
}

type Result struct {
	Records []*models.Record
	CSV     string
	Elapsed time.Duration
}

// Response shapes a successful result for the API: a preview of the first
// records plus the full CSV and count.
func (r *Result) Response() models.ScrapeResponse {
	return models.ScrapeResponse{
		Success:    true,
		Data:       r.Records[:min(PreviewSize, len(r.Records))],
		CSVContent: r.CSV,
		TotalItems: len(r.Records),
	}
}

type Service struct {
	fetcher    Fetcher
	parser     *parser.Parser
	classifier *classifier.Classifier
	log        *logger.Logger
	now        func() time.Time
}

func NewService(f Fetcher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		fetcher:    f,
		parser:     parser.New(),
		classifier: classifier.New(),
		log:        log,
		now:        time.Now,
	}
}

// WithClock replaces the timestamp source used for scrapedAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IsJSONMode reports whether a request takes the JSON path.
func IsJSONMode(rawURL, dataType string) bool {
	return dataType == models.DataTypeAPI || dataType == models.DataTypeJSON ||
		strings.Contains(rawURL, "api") || strings.Contains(rawURL, ".json")
}

// Run scrapes an already validated URL with a single fetch. Returned errors
// carry messages meant for the caller.
func (s *Service) Run(ctx context.Context, rawURL, dataType string) (*Result, error) {
	start := time.Now()

	var (
		records []*models.Record
		err     error
	)
	if IsJSONMode(rawURL, dataType) {
		records, err = s.scrapeJSON(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("Failed to fetch API data: %w", err)
		}
	} else {
		records, err = s.scrapeHTML(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("Failed to scrape HTML: %w", err)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	res := &Result{Records: records, CSV: ioformats.ToCSV(records), Elapsed: time.Since(start)}
	s.log.Infof("scraped %s: %d records in %s", rawURL, len(records), res.Elapsed)
	return res, nil
}

func (s *Service) scrapeJSON(ctx context.Context, rawURL string) ([]*models.Record, error) {
	resp, err := s.fetcher.Fetch(ctx, rawURL, crawler.AcceptJSON)
	if err != nil {
		return nil, err
	}
	return parser.ExtractJSON(resp.Body)
}

func (s *Service) scrapeHTML(ctx context.Context, rawURL string) ([]*models.Record, error) {
	resp, err := s.fetcher.Fetch(ctx, rawURL, crawler.AcceptHTML)
	if err != nil {
		return nil, err
	}
	page, err := s.parser.ExtractHTML(resp.Body, resp.ContentType, rawURL)
	if err != nil {
		return nil, err
	}
	insights := s.classifier.Insights(page.FullText, rawURL)
	return parser.BuildRecords(page, rawURL, insights, s.now()), nil
}
