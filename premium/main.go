// Command premium tracks the premium of an ETF over its NAV.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/premium/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits if invoked by the shell to complete the command line.
	cmd.Completion(commander).Complete(name)

	// run once by default.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "fetch")
	}
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
