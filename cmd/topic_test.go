package cmd

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

func runTopic(t *testing.T, c *topicCmd, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var out strings.Builder
	c.out = &out
	fs := flag.NewFlagSet("topic", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return c.Execute(context.Background(), fs), out.String()
}

func TestTopicCmd(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "premium topic"},
		{[]string{"method"}, "# Method"},
		{[]string{"*"}, "# Output"},
		{[]string{"-list"}, "config\n"},
	}
	for _, tt := range tests {
		status, got := runTopic(t, &topicCmd{}, tt.args...)
		if status != subcommands.ExitSuccess {
			t.Errorf("topic %v = %v want %v", tt.args, status, subcommands.ExitSuccess)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("topic %v output does not contain %q:\n%s", tt.args, tt.want, got)
		}
	}
}

func TestTopicCmdUnknown(t *testing.T) {
	if status, _ := runTopic(t, &topicCmd{}, "nope"); status != subcommands.ExitUsageError {
		t.Errorf("topic nope = %v want %v", status, subcommands.ExitUsageError)
	}
}
