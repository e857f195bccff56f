package version

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/subcommands"
)

var (
	// These variables are set by goreleaser
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type Command struct {
	stdout io.Writer
}

func (*Command) Name() string     { return "version" }
func (*Command) Synopsis() string { return "Print version information" }
func (*Command) Usage() string {
	return `version:
  Print the dupscan version, build commit, build date and Go runtime.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "dupscan %s (commit %s, built %s, %s %s/%s)\n",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return subcommands.ExitSuccess
}
