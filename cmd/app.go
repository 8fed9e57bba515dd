// Package cmd implements the CLI application tracking an ETF premium.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/premium/config"
	"github.com/google/subcommands"
	"github.com/oklog/ulid/v2"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "premium")
	c.Register(&summaryCmd{}, "premium")
	c.Register(&exportCmd{}, "premium")

	c.Register(&configCmd{}, "settings")
	c.Register(&topicCmd{}, "help")
}

// loadConfig loads the configuration from path, or from config.DefaultPath if
// path is empty and that file exists.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return config.Load(path)
}

// newLogger returns the logger of a run, tagged with a new run id.
func newLogger(cfg *config.Config) (*slog.Logger, string) {
	id := ulid.Make().String()
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(h).With("run", id), id
}

// printMarkdown renders markdown to the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
