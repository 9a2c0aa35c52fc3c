
package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; DataScrapingBot/1.0)"
	DefaultSizeCap   = 5 << 20

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json, text/plain, */*"
)

// Accept selects the Accept header sent with a fetch.
type Accept int

const (
	AcceptHTML Accept = iota
	AcceptJSON
)

func (a Accept) header() string {
	if a == AcceptJSON {
		return acceptJSON
	}
	return acceptHTML
}

type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindStatus
)

// FetchError reports a transport failure or a non-2xx response.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	// Reason is the reason phrase from the status line, e.g. "Not Found".
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
	}
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// ReasonPhrase strips the code from a status line such as "404 Not Found".
func ReasonPhrase(status string, code int) string {
	return strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
}

// Response is a fully read body, capped at the client's size limit.
type Response struct {
	Body        []byte
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if sizeCap <= 0 {
		sizeCap = DefaultSizeCap
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent overrides the User-Agent header.
func (h *HTTPClient) WithUserAgent(ua string) *HTTPClient {
	if ua != "" {
		h.userAgent = ua
	}
	return h
}

// Fetch performs exactly one GET against rawURL.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string, accept Accept) (*Response, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &FetchError{Kind: KindNetwork, Err: errors.New("invalid url")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", accept.header())
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: KindStatus, StatusCode: resp.StatusCode, Reason: ReasonPhrase(resp.Status, resp.StatusCode)}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gz.Close()
		body = gz
	}

	// enforce a size cap
	data, err := io.ReadAll(io.LimitReader(body, h.sizeCap))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}

	return &Response{
		Body:        data,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     time.Since(start),
	}, nil
}
