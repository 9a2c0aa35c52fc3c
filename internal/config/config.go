package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting shared by the API server and the terminal client.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Chat     ChatConfig     `yaml:"chat"`
	Terminal TerminalConfig `yaml:"terminal"`
	Content  ContentConfig  `yaml:"content"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string          `yaml:"addr"`
	CORSOrigin   string          `yaml:"cors_origin"`
	ReadTimeout  string          `yaml:"read_timeout"`
	WriteTimeout string          `yaml:"write_timeout"`
	IdleTimeout  string          `yaml:"idle_timeout"`
	PingMessage  string          `yaml:"ping_message"`
	Tracing      bool            `yaml:"tracing"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig throttles inbound requests. RPS 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ScraperConfig configures outbound fetches.
type ScraperConfig struct {
	UserAgent        string `yaml:"user_agent"`
	FetchTimeout     string `yaml:"fetch_timeout"`
	DialTimeout      string `yaml:"dial_timeout"`
	MaxBodyBytes     int64  `yaml:"max_body_bytes"`
	BatchConcurrency int    `yaml:"batch_concurrency"`
}

// ChatConfig configures the chat-completion relay. An empty APIKey puts the
// relay in demo mode.
type ChatConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// TerminalConfig configures the interactive client.
type TerminalConfig struct {
	APIURL      string `yaml:"api_url"`
	DownloadDir string `yaml:"download_dir"`
	PrefsPath   string `yaml:"prefs_path"`
	Timeout     string `yaml:"timeout"`
}

// ContentConfig points at an optional portfolio file replacing the embedded one.
type ContentConfig struct {
	PortfolioFile string `yaml:"portfolio_file"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			CORSOrigin:   "*",
			ReadTimeout:  "10s",
			WriteTimeout: "60s",
			IdleTimeout:  "120s",
			PingMessage:  "ping",
		},
		Scraper: ScraperConfig{
			UserAgent:        "Mozilla/5.0 (compatible; DataScrapingBot/1.0)",
			FetchTimeout:     "30s",
			DialTimeout:      "5s",
			MaxBodyBytes:     5 << 20,
			BatchConcurrency: 10,
		},
		Chat: ChatConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama3-8b-8192",
			MaxTokens:   300,
			Temperature: 0.7,
			Timeout:     "30s",
		},
		Terminal: TerminalConfig{
			APIURL:      "http://localhost:8080",
			DownloadDir: ".",
			PrefsPath:   defaultPrefsPath(),
			Timeout:     "60s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults. A missing
// file is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the effective configuration to path, creating parent
// directories. The chat key is never written; it belongs in GROQ_API_KEY.
func (c *Config) Save(path string) error {
	out := *c
	out.Chat.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.Chat.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		if strings.Contains(port, ":") {
			c.Server.Addr = port
		} else {
			c.Server.Addr = ":" + port
		}
	}
	if msg := os.Getenv("PING_MESSAGE"); msg != "" {
		c.Server.PingMessage = msg
	}
	if url := os.Getenv("PORTFOLIO_API_URL"); url != "" {
		c.Terminal.APIURL = strings.TrimRight(url, "/")
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	for name, d := range map[string]string{
		"server.read_timeout":   c.Server.ReadTimeout,
		"server.write_timeout":  c.Server.WriteTimeout,
		"server.idle_timeout":   c.Server.IdleTimeout,
		"scraper.fetch_timeout": c.Scraper.FetchTimeout,
		"scraper.dial_timeout":  c.Scraper.DialTimeout,
		"chat.timeout":          c.Chat.Timeout,
		"terminal.timeout":      c.Terminal.Timeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
	}
	if c.Server.RateLimit.RPS < 0 {
		return fmt.Errorf("invalid server.rate_limit.rps %v", c.Server.RateLimit.RPS)
	}
	if c.Chat.MaxTokens <= 0 {
		return fmt.Errorf("invalid chat.max_tokens %d", c.Chat.MaxTokens)
	}
	return nil
}

func (c *Config) GetFetchTimeout() time.Duration {
	return parseDuration(c.Scraper.FetchTimeout, 30*time.Second)
}

func (c *Config) GetDialTimeout() time.Duration {
	return parseDuration(c.Scraper.DialTimeout, 5*time.Second)
}

func (c *Config) GetChatTimeout() time.Duration {
	return parseDuration(c.Chat.Timeout, 30*time.Second)
}

func (c *Config) GetTerminalTimeout() time.Duration {
	return parseDuration(c.Terminal.Timeout, 60*time.Second)
}

// GetServerTimeouts returns read, write and idle timeouts.
func (c *Config) GetServerTimeouts() (read, write, idle time.Duration) {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second),
		parseDuration(c.Server.WriteTimeout, 60*time.Second),
		parseDuration(c.Server.IdleTimeout, 120*time.Second)
}

// DemoMode reports whether the chat relay runs without an upstream key.
func (c *Config) DemoMode() bool {
	return c.Chat.APIKey == ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "portfolio-terminal.db"
	}
	return filepath.Join(dir, "portfolio-terminal", "prefs.db")
}
