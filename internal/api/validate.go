package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"

	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/textutil"
)

// User-facing validation messages.
const (
	MsgInvalidURL     = "Invalid URL provided. Please provide a valid URL."
	MsgSchemeRequired = "URL must start with http:// or https://"
	MsgInvalidChat    = "Invalid request. Message is required and must be between 1-1000 characters."
	MsgInvalidAnalyze = "Invalid content or URL provided."

	maxMessageLen = 1000
	maxBodyBytes  = 1 << 20
)

var (
	errInvalidURL = errors.New(MsgInvalidURL)
	errScheme     = errors.New(MsgSchemeRequired)
)

// Raw payloads use pointers so a missing field can be told apart from a
// present one with the wrong value.
type rawScrape struct {
	URL      *string `json:"url"`
	DataType *string `json:"dataType"`
}

type rawChat struct {
	Message *string `json:"message"`
	Context *string `json:"context"`
}

type rawAnalyze struct {
	Content      *string `json:"content"`
	URL          *string `json:"url"`
	AnalysisType *string `json:"analysisType"`
}

func decodeBody(r io.Reader, v any) error {
	return json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(v)
}

// isAbsoluteURL accepts anything with a scheme and either a host or an
// opaque part, e.g. "https://x.io", "ftp://h/f" or "mailto:a@b".
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}

func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateScrapeURL checks a single target the way the scrape route does.
// The scheme check runs even when the URL parses.
func ValidateScrapeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if !isAbsoluteURL(u) {
		return "", errInvalidURL
	}
	if !hasHTTPScheme(u) {
		return "", errScheme
	}
	return u, nil
}

func validDataType(dt string) bool {
	switch dt {
	case models.DataTypeHTML, models.DataTypeAPI, models.DataTypeJSON:
		return true
	}
	return false
}

// validateScrape returns a trimmed request or the message to send with a 400.
func validateScrape(r io.Reader) (models.ScrapeRequest, error) {
	var raw rawScrape
	if err := decodeBody(r, &raw); err != nil || raw.URL == nil {
		return models.ScrapeRequest{}, errInvalidURL
	}
	dt := models.DataTypeHTML
	if raw.DataType != nil {
		if !validDataType(*raw.DataType) {
			return models.ScrapeRequest{}, errInvalidURL
		}
		dt = *raw.DataType
	}
	u, err := ValidateScrapeURL(*raw.URL)
	if err != nil {
		return models.ScrapeRequest{}, err
	}
	return models.ScrapeRequest{URL: u, DataType: dt}, nil
}

func validateChat(r io.Reader) (models.ChatRequest, bool) {
	var raw rawChat
	if err := decodeBody(r, &raw); err != nil || raw.Message == nil {
		return models.ChatRequest{}, false
	}
	n := textutil.Len(*raw.Message)
	if n < 1 || n > maxMessageLen {
		return models.ChatRequest{}, false
	}
	return models.ChatRequest{Message: *raw.Message, Context: raw.Context}, true
}

func validateAnalyze(r io.Reader) (models.AnalyzeRequest, bool) {
	var raw rawAnalyze
	if err := decodeBody(r, &raw); err != nil || raw.Content == nil || raw.URL == nil {
		return models.AnalyzeRequest{}, false
	}
	if *raw.Content == "" || !isAbsoluteURL(*raw.URL) {
		return models.AnalyzeRequest{}, false
	}
	at := models.AnalysisSummary
	if raw.AnalysisType != nil {
		switch *raw.AnalysisType {
		case models.AnalysisSummary, models.AnalysisEntities, models.AnalysisInsights, models.AnalysisKeywords:
			at = *raw.AnalysisType
		default:
			return models.AnalyzeRequest{}, false
		}
	}
	return models.AnalyzeRequest{Content: *raw.Content, URL: *raw.URL, AnalysisType: at}, true
}
