// Package chat relays visitor questions to an OpenAI-compatible chat
// completion endpoint, answering from canned text when it cannot.
package chat

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

	"portfolio-terminal/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"

	// ReplyPrefix marks every relayed answer.
	ReplyPrefix = "🤖 "

	maxResponseSize = 1 << 20
)

// Unavailable is returned when the upstream answers with a non-2xx status.
const Unavailable = `🤖 AI temporarily unavailable

Sorry, I'm having trouble connecting to my AI brain right now.

While I get that sorted out, you can still explore:
• about - Learn about my background
• skills - View my technical expertise
• projects - Check out my featured work
• contact - Get in touch directly

Please try your AI question again in a moment!`

// Failed is returned when the call itself fails or yields no content.
const Failed = "🤖 Oops! Something went wrong\n\n" +
	"I encountered an error while processing your question. \n\n" +
	"In the meantime, you can explore my portfolio using:\n" +
	"• about - My background and experience\n" +
	"• skills - Technical skills and expertise  \n" +
	"• projects - Featured projects and work\n" +
	"• contact - Ways to get in touch\n\n" +
	"Please try asking again, or feel free to use the other commands!"

// DemoReply is the offline answer used when no API key is configured.
func DemoReply(message string) string {
	return `🤖 AI Assistant (Demo Mode)

I'm currently running in demo mode since the Groq API key isn't configured yet.

Based on your question: "` + message + `"

Here's what I can tell you:

• I'm a passionate data analyst with expertise in Python, SQL, and machine learning
• I love building interactive data experiences like this terminal portfolio
• I have experience with modern analytics tools and AI APIs
• I'm always excited to discuss data science and analytical projects

To enable full AI functionality:
1. Set up a Groq API key in environment variables
2. The AI will then provide personalized, context-aware responses

For now, try these commands to learn more:
• about - My background and experience
• skills - Technical expertise
• projects - Featured work
• contact - Get in touch directly`
}

var ErrNoContent = errors.New("No response from AI")

// StatusError is a non-2xx answer from the completion endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat completion HTTP %d: %s", e.Status, e.Body)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (r *completionResponse) content() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

type Options struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	SystemPrompt string
}

type Relay struct {
	opts       Options
	httpClient *http.Client
	log        *logger.Logger
}

func NewRelay(opts Options, log *logger.Logger) *Relay {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		log:        log,
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (r *Relay) WithHTTPClient(c *http.Client) *Relay {
	r.httpClient = c
	return r
}

// DemoMode reports whether replies come from the offline template.
func (r *Relay) DemoMode() bool {
	return r.opts.APIKey == ""
}

// Reply always produces text for the visitor. Upstream failures are logged
// and mapped to Unavailable or Failed.
func (r *Relay) Reply(ctx context.Context, message string) string {
	if r.DemoMode() {
		return DemoReply(message)
	}
	answer, err := r.Complete(ctx, message)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			r.log.Errorf("chat upstream error: %v", err)
			return Unavailable
		}
		r.log.Errorf("chat error: %v", err)
		return Failed
	}
	return ReplyPrefix + answer
}

// Complete performs one completion call and returns the raw answer text.
func (r *Relay) Complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: r.opts.Model,
		Messages: []Message{
			{Role: "system", Content: r.opts.SystemPrompt},
			{Role: "user", Content: message},
		},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.opts.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var cr completionResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	content := cr.content()
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}
