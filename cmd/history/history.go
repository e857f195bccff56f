package history

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/nrtkbb/dupscan/app"
	"github.com/nrtkbb/dupscan/db"
	"github.com/nrtkbb/dupscan/dedup"
)

type Command struct {
	dbPath string
	scanID int64
	limit  int

	stdout io.Writer
}

func (*Command) Name() string     { return "history" }
func (*Command) Synopsis() string { return "List stored scans or reprint one report" }
func (*Command) Usage() string {
	return `history -db <database> [-id <scan>] [-limit <n>]:
  Without -id, list the most recent scans stored with "scan -db".
  With -id, print that scan's report in the same format as scan.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.Int64Var(&c.scanID, "id", 0, "scan id to reprint")
	f.IntVar(&c.limit, "limit", 20, "number of scans to list")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" || c.limit < 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	appCtx := app.NewAppContext(ctx)
	defer appCtx.PerformCleanup()
	logger := appCtx.Logger()

	database, err := db.SetupDatabase(appCtx.Context, c.dbPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to setup database")
		return subcommands.ExitFailure
	}
	appCtx.DB = database

	if c.scanID != 0 {
		err = printReport(appCtx.Context, database, c.scanID, out)
	} else {
		err = printScans(appCtx.Context, database, c.limit, out)
	}
	if err != nil {
		logger.Error().Err(err).Msg("history failed")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printReport(ctx context.Context, database *sql.DB, scanID int64, out io.Writer) error {
	if _, err := db.GetScan(ctx, database, scanID); err != nil {
		return err
	}
	groups, err := db.GetGroups(ctx, database, scanID)
	if err != nil {
		return err
	}
	return dedup.WriteReport(out, groups)
}

func printScans(ctx context.Context, database *sql.DB, limit int, out io.Writer) error {
	scans, err := db.ListScans(ctx, database, limit, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCANNED\tFILES\tGROUPS\tDUPLICATE KB\tSKIPPED\tDIRECTORY")
	for _, s := range scans {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.ScanID,
			time.Unix(s.CreatedAt, 0).Format(time.DateTime),
			s.FileCount,
			s.GroupCount,
			s.DuplicateBytes/1024,
			s.ErrorCount,
			s.Directory,
		)
	}
	return w.Flush()
}
