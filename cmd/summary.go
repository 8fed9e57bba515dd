package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/premium"
	"github.com/etnz/premium/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	input  string
	recent int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the summary of a premium file" }
func (*summaryCmd) Usage() string {
	return `premium summary [-i <file>] [-n <days>]

  Displays the premium statistics of a file written by 'premium fetch' and its
  most recent days.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Premium file. Defaults to the configured output.")
	f.IntVar(&c.recent, "n", 5, "Number of recent days to list.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	input := c.input
	if input == "" {
		input = cfg.Output
	}

	report, err := premium.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", input, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(report, renderer.SummaryOptions{
		Title:    cfg.Price,
		Currency: cfg.Currency,
		Pair:     cfg.Pair(),
		Recent:   c.recent,
	}))
	return subcommands.ExitSuccess
}
