package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/etnz/premium"
	"github.com/etnz/premium/config"
	"github.com/etnz/premium/date"
	"github.com/etnz/premium/mfapi"
	"github.com/etnz/premium/renderer"
	"github.com/etnz/premium/yahoo"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	configPath string
	output     string
	days       int
	quiet      bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches prices, NAVs and rates and writes the premium file" }
func (*fetchCmd) Usage() string {
	return `premium fetch [-config <file>] [-o <file>] [-days <n>] [-quiet]

Fetches the ETF prices and the exchange rate from Yahoo Finance and the fund's
NAVs from mfapi.in over the last days, computes the daily premium and its
statistics, and writes them to the output file.

The output file is replaced only if the whole run succeeds.
See 'premium topic method' and 'premium topic output'.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "Configuration file. Defaults to "+config.DefaultPath+" if it exists.")
	f.StringVar(&c.output, "o", "", "Output file. Overrides the configuration.")
	f.IntVar(&c.days, "days", 0, "Number of days to look back. Overrides the configuration.")
	f.BoolVar(&c.quiet, "quiet", false, "Do not print the summary.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days < 0 {
		fmt.Fprintf(os.Stderr, "Error: -days must be positive, got %d\n", c.days)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		cfg.Output = c.output
	}
	if c.days > 0 {
		cfg.LookbackDays = c.days
	}

	log, runID := newLogger(cfg)
	run := fetchRun{cfg: cfg, log: log, today: date.Today(), now: time.Now}

	report, meta, err := run.report(ctx)
	if err != nil {
		log.Error("fetch failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := report.WriteFile(cfg.Output); err != nil {
		log.Error("fetch failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info("report written", "path", cfg.Output, "data_points", report.DataPoints)

	if !c.quiet {
		title := meta.SchemeName
		if title == "" {
			title = cfg.Price
		}
		printMarkdown(renderer.SummaryMarkdown(report, renderer.SummaryOptions{
			Title:    title,
			Currency: cfg.Currency,
			Pair:     cfg.Pair(),
			Recent:   5,
			RunID:    runID,
		}))
	}
	return subcommands.ExitSuccess
}

// fetchRun is one execution of the premium computation.
type fetchRun struct {
	cfg   *config.Config
	log   *slog.Logger
	today date.Date
	now   func() time.Time
}

// report fetches the three series sequentially and computes the report.
func (r *fetchRun) report(ctx context.Context) (*premium.Report, mfapi.Meta, error) {
	period := date.LastDays(r.today, r.cfg.LookbackDays)
	// today's session is not closed yet.
	closed := date.Range{From: period.From, To: r.today.Add(-1)}
	r.log.Info("fetching", "from", period.From, "to", period.To)

	quotes := yahoo.NewClient(r.cfg.Timeout)
	quotes.BaseURL, quotes.Logger = r.cfg.YahooURL, r.log
	funds := mfapi.NewClient(r.cfg.Timeout)
	funds.BaseURL, funds.Logger = r.cfg.MFAPIURL, r.log

	var meta mfapi.Meta
	prices, err := quotes.Daily(ctx, r.cfg.Price, closed)
	if err != nil {
		return nil, meta, err
	}
	navs, meta, err := funds.NAV(ctx, r.cfg.Scheme)
	if err != nil {
		return nil, meta, err
	}
	rates, err := quotes.Daily(ctx, r.cfg.Forex, closed)
	if err != nil {
		return nil, meta, err
	}

	src := premium.Sources{Prices: prices, NAVs: navs, Rates: rates}.Window(period)
	if err := src.Validate(); err != nil {
		return nil, meta, err
	}
	if span, ok := src.Span(); ok {
		r.log.Debug("calendar", "from", span.From, "to", span.To, "days", span.Days())
	}
	navDay, nav := src.NAVs.Latest()
	r.log.Info("navs in period", "records", src.NAVs.Len(), "latest", navDay, "nav", nav)

	records := premium.Align(src)
	stats, err := premium.Summarize(premium.Premiums(records))
	if err != nil {
		return nil, meta, fmt.Errorf("no trading day could be computed: %w", err)
	}
	r.log.Info("premium computed", "days", len(records), "skipped", prices.Len()-len(records), "current", stats.Current)

	return premium.NewReport(records, stats, r.now()), meta, nil
}
