package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/premium/config"
	"github.com/google/subcommands"
)

type configCmd struct {
	file  string
	force bool
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "write or validate the configuration" }
func (*configCmd) Usage() string {
	return `premium config init [-f <file>] [-force]
premium config validate [-f <file>]

  init writes the default configuration to the file.
  validate loads the file, applies the PREMIUM_* environment variables and
  checks the result.

See 'premium topic config'.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", config.DefaultPath, "Configuration file.")
	f.BoolVar(&c.force, "force", false, "Overwrite an existing file.")
}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one action, init or validate\n")
		return subcommands.ExitUsageError
	}
	switch f.Arg(0) {
	case "init":
		return c.initFile()
	case "validate":
		return c.validateFile()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q, expected init or validate\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
}

func (c *configCmd) initFile() subcommands.ExitStatus {
	if !c.force {
		if _, err := os.Stat(c.file); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %q already exists, use -force to overwrite it\n", c.file)
			return subcommands.ExitFailure
		} else if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err := config.Default().SaveToFile(c.file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Default configuration written to %s\n", c.file)
	return subcommands.ExitSuccess
}

func (c *configCmd) validateFile() subcommands.ExitStatus {
	cfg, err := config.Load(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s is valid: tracking %s (scheme %s) in %s over %d days\n", c.file, cfg.Price, cfg.Scheme, cfg.Pair(), cfg.LookbackDays)
	return subcommands.ExitSuccess
}
