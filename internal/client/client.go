// Package client talks to the portfolio API on behalf of the terminal and
// the command-line tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-terminal/internal/crawler"
	"portfolio-terminal/internal/models"
)

const maxResponseSize = 32 << 20

// ChatFallback is what "ask" shows when the chat call itself fails.
func ChatFallback(reason string) string {
	return `🤖 AI Chat Error

Sorry, I couldn't process your message right now: ` + reason + `

You can still explore my portfolio using these commands:
• about - Learn about my background
• skills - View my technical skills
• projects - Explore my featured work
• contact - Get in touch directly

Please try again later!`
}

// HTTPError is a non-2xx answer from the API. Status is the full status
// line as received, e.g. "502 Bad Gateway".
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, crawler.ReasonPhrase(e.Status, e.StatusCode))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Chat posts one message and returns the reply. A non-2xx status or an
// error field in the body is returned as an error.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out models.ChatResponse
	if err := c.post(ctx, "/api/ai-chat", models.ChatRequest{Message: message}, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}
	return out.Response, nil
}

// Ask satisfies commands.Asker. Failures come back as ChatFallback text so
// the terminal always has something to show.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	reply, err := c.Chat(ctx, question)
	if err != nil {
		return ChatFallback(err.Error()), nil
	}
	return reply, nil
}

// Scrape returns the API's answer. success:false answers (including 400
// validation failures) come back as a response, not an error.
func (c *Client) Scrape(ctx context.Context, url, dataType string) (*models.ScrapeResponse, error) {
	var out models.ScrapeResponse
	err := c.post(ctx, "/api/scrape", models.ScrapeRequest{URL: url, DataType: dataType}, &out)
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest && out.Error != "" {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	var out models.AnalyzeResponse
	err := c.post(ctx, "/api/ai-analyze", req, &out)
	var he *HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest && out.Error != "" {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping returns the server's ping message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do decodes the body into out even for non-2xx answers, then reports the
// status as *HTTPError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	decodeErr := json.Unmarshal(data, out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	return nil
}
