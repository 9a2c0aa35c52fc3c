package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"portfolio-terminal/internal/api"
	"portfolio-terminal/internal/chat"
	"portfolio-terminal/internal/classifier"
	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/crawler"
	"portfolio-terminal/internal/mid"
	"portfolio-terminal/internal/portfolio"
	"portfolio-terminal/internal/scrape"
	"portfolio-terminal/pkg/logger"
)

var (
	configPath  string
	addr        string
	verbose     bool
	writeConfig bool
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-server",
	Short: "HTTP API behind the portfolio terminal",
	Long: `Serves the portfolio terminal API:

  POST /api/ai-chat        chat relay (demo replies without an API key)
  POST /api/scrape         fetch a page or JSON API and convert it to records + CSV
  POST /api/scrape/batch   scrape a list of URLs
  POST /api/scrape/upload  scrape URLs from an uploaded CSV/NDJSON/text file
  POST /api/ai-analyze     heuristic content analysis
  GET  /api/ping, /health`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if writeConfig {
			return saveConfig(cmd.OutOrStdout())
		}
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "portfolio.yaml", "config file (missing file means defaults)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&writeConfig, "write-config", false, "write the effective config to --config and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, then applies the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// saveConfig writes defaults, file values and overrides back to --config,
// which gives a starting point for editing.
func saveConfig(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", configPath)
	return nil
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		File:        cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	content, err := portfolio.Load(cfg.Content.PortfolioFile)
	if err != nil {
		return err
	}

	client := crawler.NewHTTPClient(cfg.GetFetchTimeout(), cfg.GetDialTimeout(), cfg.Scraper.MaxBodyBytes).
		WithUserAgent(cfg.Scraper.UserAgent)
	relay := chat.NewRelay(chat.Options{
		APIKey:       cfg.Chat.APIKey,
		BaseURL:      cfg.Chat.BaseURL,
		Model:        cfg.Chat.Model,
		MaxTokens:    cfg.Chat.MaxTokens,
		Temperature:  cfg.Chat.Temperature,
		Timeout:      cfg.GetChatTimeout(),
		SystemPrompt: content.SystemPrompt(),
	}, l)
	if cfg.DemoMode() {
		l.Warnf("GROQ_API_KEY not set, chat replies run in demo mode")
	}

	srv := api.New(api.Deps{
		Scraper:          scrape.NewService(client, l),
		Chat:             relay,
		Analyzer:         classifier.New(),
		Log:              l,
		PingMessage:      cfg.Server.PingMessage,
		BatchConcurrency: cfg.Scraper.BatchConcurrency,
		FetchTimeout:     cfg.GetFetchTimeout(),
	})

	mws := []mid.Middleware{
		mid.RequestID(),
		mid.Logger(l),
		mid.Recover(l),
		mid.CORS(cfg.Server.CORSOrigin),
		mid.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
	}
	if cfg.Server.Tracing {
		mws = append([]mid.Middleware{mid.OTel("portfolio-api")}, mws...)
	}

	read, write, idle := cfg.GetServerTimeouts()
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mid.Chain(srv.Routes(), mws...),
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  idle,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Infof("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Errorf("server error: %v", err)
		return err
	}
	l.Infof("bye")
	return nil
}
