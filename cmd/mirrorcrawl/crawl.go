package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/mirrorcrawl/internal/config"
	"github.com/nao1215/mirrorcrawl/internal/crawler"
	"github.com/nao1215/mirrorcrawl/internal/database"
	"github.com/nao1215/mirrorcrawl/internal/mirror"
	"github.com/nao1215/mirrorcrawl/internal/model"
	"github.com/nao1215/mirrorcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Mirror a website starting from a seed URL",
		Long: `Crawl fetches the seed page, follows every link that stays on the same
host, and writes each page to <output>/<url path>/index.html.

Links to files (any path with an extension, such as .css or .png) are not
followed. Pages that fail to fetch or write are reported and skipped; only
a failure on the seed stops the crawl. Every run is recorded in the crawl
journal (see "mirrorcrawl history").

Examples:
  # Mirror the default site into ./static
  mirrorcrawl crawl

  # Mirror a site into ./mirror with 32 workers
  mirrorcrawl crawl https://example.com -o mirror -w 32

  # Print a Markdown summary to a file
  mirrorcrawl crawl https://example.com --report markdown --report-file summary.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory the mirror is written to")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of pages fetched concurrently")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request (0 disables it)")
	cmd.Flags().String("host", "",
		"Only follow links to this host (default: the seed's host)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mirrorcrawl in current or home directory)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Largest response body accepted; bigger pages fail and are not mirrored")
	cmd.Flags().StringP("report", "r", "",
		"Print a summary after the crawl: text, markdown or json")
	cmd.Flags().String("report-file", "",
		"Write the summary to this file instead of stdout (implies --report text)")
	cmd.Flags().Bool("no-db", false,
		"Do not record the run in the crawl journal")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the crawl journal database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from flags, the config file and args.
// Flags explicitly set on the command line win over the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if len(args) > 0 {
		cfg.SeedURL = args[0]
	}
	if cfg.OutputDir, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.TargetHost, err = flags.GetString("host"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ReportFormat, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.ReportFile != "" && cfg.ReportFormat == "" {
		cfg.ReportFormat = config.ReportFormatText
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	// verbose is inherited from the root command.
	if verbose, err := flags.GetBool("verbose"); err == nil {
		cfg.Verbose = verbose
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	site := cfg.SiteConfig(crawlHost(cfg))
	if site.Workers > 0 && !flags.Changed("workers") {
		cfg.Workers = site.Workers
	}
	if site.UserAgent != "" && !flags.Changed("user-agent") {
		cfg.UserAgent = site.UserAgent
	}

	return cfg, nil
}

// loadSiteConfigs loads the config file into cfg.SiteConfigs.
// A missing file is an error only when its path was given explicitly.
func loadSiteConfigs(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.SiteConfigs = file
	return nil
}

// crawlHost returns the host whose site settings apply.
// An unparsable seed yields "", which Validate or crawler.New reports later.
func crawlHost(cfg *config.Config) string {
	if cfg.TargetHost != "" {
		return cfg.TargetHost
	}
	u, err := url.Parse(cfg.SeedURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// runCrawl wires the crawler to HTTP, the mirror directory and the journal,
// then runs it.
func runCrawl(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	site := cfg.SiteConfig(crawlHost(cfg))
	console := crawler.NewConsole(out)

	fetcher := crawler.NewHTTPFetcher(
		crawler.NewHTTPClient(cfg.Timeout, cfg.Workers),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithCookie(site.Cookie),
		crawler.WithHeaders(site.Headers),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithFetchConsole(console),
		crawler.WithFetchLogger(logger),
	)

	runID := uuid.NewString()
	opts := []crawler.Option{
		crawler.WithWorkers(cfg.Workers),
		crawler.WithConsole(console),
		crawler.WithLogger(logger),
		crawler.WithRunID(runID),
		crawler.WithTargetHost(cfg.TargetHost),
	}

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		opts = append(opts, crawler.WithRecorder(db))
	}

	c, err := crawler.New(cfg.SeedURL, fetcher, mirror.NewSink(cfg.OutputDir), opts...)
	if err != nil {
		return err
	}

	if db != nil {
		run := &model.CrawlRun{
			ID:         runID,
			Seed:       c.Seed(),
			TargetHost: c.TargetHost(),
			OutputDir:  cfg.OutputDir,
			StartedAt:  time.Now(),
		}
		if err := db.StartRun(ctx, run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		logger.Debug("journal opened", "path", db.Path(), "run", runID)
	}

	summary, runErr := c.Run(ctx)
	summary.OutputDir = cfg.OutputDir

	if db != nil {
		// The run row is finished even when the crawl was interrupted.
		if err := db.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
			logger.Warn("failed to finish run in journal", "run", runID, "error", err)
		}
	}

	if cfg.ReportFormat != "" {
		if err := outputReport(cfg, summary, out); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("crawl interrupted after %d iteration(s): %w", len(summary.Iterations), runErr)
	}
	return runErr
}

// outputReport writes the summary in the configured format to ReportFile,
// or to out when no file is set.
func outputReport(cfg *config.Config, summary *model.CrawlSummary, out io.Writer) error {
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := report.NewWriter(cfg.ReportFormat, out)
	if err != nil {
		return err
	}
	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
