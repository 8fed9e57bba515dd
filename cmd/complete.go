package cmd

import (
	"flag"

	"github.com/etnz/premium/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of every command registered in c.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)

		cc := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			cc.Flags[f.Name] = predictFlag(f)
		})
		switch sub.Name() {
		case "topic":
			topics, _ := docs.List()
			cc.Args = predict.Set(append(topics, "*"))
		case "config":
			cc.Args = predict.Set{"init", "validate"}
		}
		root.Sub[sub.Name()] = cc
	})
	return root
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "config", "f":
		return predict.Files("*.yaml")
	case "i":
		return predict.Files("*.json")
	case "o":
		return predict.Files("*")
	}
	return predict.Something
}
