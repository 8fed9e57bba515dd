package cmd

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
)

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("premium", flag.ContinueOnError), "premium")
	Register(commander)

	root := Completion(commander)
	for _, name := range []string{"fetch", "summary", "export", "config", "topic"} {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("Completion() has no %q command", name)
		}
	}
	fetch := root.Sub["fetch"]
	for _, name := range []string{"config", "o", "days", "quiet"} {
		if _, ok := fetch.Flags[name]; !ok {
			t.Errorf("Completion() has no -%s flag for fetch", name)
		}
	}
	if got := root.Sub["config"].Args.Predict(""); len(got) != 2 {
		t.Errorf("config args prediction = %v want init and validate", got)
	}
	topics := root.Sub["topic"].Args.Predict("")
	found := false
	for _, topic := range topics {
		if topic == "method" {
			found = true
		}
	}
	if !found {
		t.Errorf("topic args prediction = %v want it to contain method", topics)
	}
}
