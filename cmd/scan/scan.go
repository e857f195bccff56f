package scan

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/nrtkbb/dupscan/app"
	"github.com/nrtkbb/dupscan/db"
	"github.com/nrtkbb/dupscan/dedup"
	"github.com/nrtkbb/dupscan/scanner"
	"github.com/schollz/progressbar/v3"
)

type Command struct {
	dir      string
	dbPath   string
	progress bool
	strict   bool

	stdout io.Writer
	stderr io.Writer
}

func (*Command) Name() string     { return "scan" }
func (*Command) Synopsis() string { return "Report identical files in a directory" }
func (*Command) Usage() string {
	return `scan [-dir <directory>] [-db <database>] [-progress] [-strict]:
  List the files directly under a directory, compare files of equal size
  byte by byte and print every run of identical files.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "directory to scan")
	f.StringVar(&c.dbPath, "db", "", "also store the report in this database")
	f.BoolVar(&c.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&c.strict, "strict", false, "exit with status 1 when some files could not be compared")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := c.writers()

	appCtx := app.NewAppContext(ctx)
	defer appCtx.PerformCleanup()
	appCtx.SetupSignalHandling()
	logger := appCtx.Logger()

	fsys, err := scanner.Open(c.dir)
	if err != nil {
		fmt.Fprintf(stderr, "dupscan: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := dedup.Options{Stats: appCtx.Stats}
	if c.progress {
		update, finish := newProgress(stderr)
		opts.Progress = update
		defer finish()
	}

	report, err := dedup.Run(appCtx.Context, fsys, ".", opts)
	if err != nil {
		fmt.Fprintf(stderr, "dupscan: %v\n", err)
		return subcommands.ExitFailure
	}
	report.Directory = fsys.Root()

	if err := dedup.WriteReport(stdout, report.Groups); err != nil {
		logger.Error().Err(err).Msg("failed to write report")
		return subcommands.ExitFailure
	}

	if c.dbPath != "" {
		database, err := db.SetupDatabase(appCtx.Context, c.dbPath)
		if err != nil {
			logger.Error().Err(err).Msg("failed to setup database")
			return subcommands.ExitFailure
		}
		appCtx.DB = database

		scanID, err := db.SaveReport(appCtx.Context, database, report)
		if err != nil {
			logger.Error().Err(err).Msg("failed to store report")
			return subcommands.ExitFailure
		}
		logger.Info().Int64("scan_id", scanID).Str("db", c.dbPath).Msg("report stored")
	}

	if n := len(report.Errors); n > 0 {
		fmt.Fprintf(stderr, "dupscan: %d pair(s) could not be compared and were skipped\n", n)
		if c.strict {
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}

func (c *Command) writers() (io.Writer, io.Writer) {
	stdout, stderr := c.stdout, c.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}

// newProgress returns a progress callback that draws a bar on w once the
// number of pairs is known, and a func that completes the bar.
func newProgress(w io.Writer) (dedup.ProgressFunc, func()) {
	var bar *progressbar.ProgressBar
	update := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("Comparing files..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(15),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
	return update, finish
}
