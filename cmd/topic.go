package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/premium/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded manual.
type topicCmd struct {
	list bool
	raw  bool
	out  io.Writer // stdout if nil
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the manual: method, configuration, output format" }
func (*topicCmd) Usage() string {
	return `premium topic [-list] [-raw] [<topic>...|*]

  Prints the manual pages about how the premium is computed, how to configure
  the tracker and what the output file contains. Without a topic, prints the
  index. '*' prints every page.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Only list the topic names, one per line.")
	f.BoolVar(&c.raw, "raw", false, "Print the Markdown source instead of rendering it.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	if c.list {
		names, err := docs.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(out, strings.Join(names, "\n"))
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	page, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.raw || c.out != nil {
		fmt.Fprint(out, page)
		return subcommands.ExitSuccess
	}
	printMarkdown(page)
	return subcommands.ExitSuccess
}
