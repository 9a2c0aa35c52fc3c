package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"portfolio-terminal/internal/api"
	"portfolio-terminal/internal/client"
	"portfolio-terminal/internal/commands"
	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/crawler"
	"portfolio-terminal/internal/ioformats"
	"portfolio-terminal/internal/models"
	"portfolio-terminal/internal/portfolio"
	"portfolio-terminal/internal/prefs"
	"portfolio-terminal/internal/scrape"
	"portfolio-terminal/internal/terminal"
	"portfolio-terminal/pkg/logger"
)

var (
	configPath string
	apiURL     string

	inputFile   string
	outputFile  string
	concurrency int
	dataType    string

	analyzeURL  string
	analyzeFile string
	analyzeType string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Terminal-style portfolio client",
	Long: `Interactive portfolio terminal backed by the portfolio API.

Run without arguments to start the terminal. Type "help" inside it for the
command list.`,
	SilenceUsage: true,
	RunE:         runTerminal,
}

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Start the interactive terminal",
	Args:  cobra.NoArgs,
	RunE:  runTerminal,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url...]",
	Short: "Scrape URLs locally and print NDJSON results",
	Long: `Scrapes each URL with the same pipeline as POST /api/scrape and writes one
JSON result per line, in input order.

Examples:
  portfolio scrape https://jsonplaceholder.typicode.com/posts
  portfolio scrape --input urls.csv --output results.ndjson`,
	RunE: runScrape,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the portfolio assistant one question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := client.New(cfg.Terminal.APIURL, cfg.GetTerminalTimeout())
		answer, _ := c.Ask(cmd.Context(), strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the content analysis on a file (or stdin with --file -)",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "portfolio.yaml", "config file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL, overrides terminal.api_url")

	scrapeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file (csv with 'url' column, ndjson, or one url per line)")
	scrapeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output NDJSON file (default stdout)")
	scrapeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker concurrency (default scraper.batch_concurrency)")
	scrapeCmd.Flags().StringVar(&dataType, "data-type", models.DataTypeHTML, "html, api or json (JSON mode is also picked for API-looking URLs)")

	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "source URL of the content")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "-", "content file, - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", models.AnalysisSummary, "summary, entities, insights or keywords")
	_ = analyzeCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(terminalCmd, scrapeCmd, askCmd, analyzeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.Terminal.APIURL = strings.TrimSuffix(apiURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTerminal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The screen belongs to the terminal; log to a file or nowhere.
	l := logger.Nop()
	if cfg.Logging.File != "" {
		if l, err = logger.New(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = l.Sync() }()
	}

	content, err := portfolio.Load(cfg.Content.PortfolioFile)
	if err != nil {
		return err
	}

	var pf terminal.Prefs
	store, err := prefs.Open(cfg.Terminal.PrefsPath)
	if err != nil {
		l.Warnf("preferences disabled: %v", err)
	} else {
		defer store.Close()
		pf = store
	}

	c := client.New(cfg.Terminal.APIURL, cfg.GetTerminalTimeout())
	m := terminal.NewModel(terminal.Options{
		Dispatcher:  commands.NewDispatcher(commands.Builtins(content, time.Now), content.Contact, c),
		Scraper:     c,
		Prefs:       pf,
		Name:        content.About.Name,
		Handle:      content.Handle,
		Welcome:     content.Welcome,
		DownloadDir: cfg.Terminal.DownloadDir,
		Log:         l,
		Context:     ctx,
	})

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	urls := args
	if inputFile != "" {
		fromFile, err := ioformats.ReadURLs(inputFile)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("give at least one url or --input")
	}

	l, err := logger.New(logger.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development, File: cfg.Logging.File})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	fetcher := crawler.NewHTTPClient(cfg.GetFetchTimeout(), cfg.GetDialTimeout(), cfg.Scraper.MaxBodyBytes).
		WithUserAgent(cfg.Scraper.UserAgent)
	svc := scrape.NewService(fetcher, l)

	limit := concurrency
	if limit <= 0 {
		limit = cfg.Scraper.BatchConcurrency
	}

	results := make([]api.BatchItem, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = api.ScrapeItem(gctx, svc, u, dataType)
			return nil
		})
	}
	_ = g.Wait()

	var w io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		bw := bufio.NewWriter(f)
		defer bw.Flush()
		w = bw
	}
	return ioformats.WriteNDJSON(w, results)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var data []byte
	if analyzeFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(analyzeFile)
	}
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	c := client.New(cfg.Terminal.APIURL, cfg.GetTerminalTimeout())
	resp, err := c.Analyze(cmd.Context(), models.AnalyzeRequest{
		Content:      string(data),
		URL:          analyzeURL,
		AnalysisType: analyzeType,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
