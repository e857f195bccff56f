package migrate

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/nrtkbb/dupscan/db"
	"github.com/rs/zerolog"
)

type Command struct {
	dbPath string
}

func (*Command) Name() string     { return "migrate" }
func (*Command) Synopsis() string { return "Run database migrations" }
func (*Command) Usage() string {
	return `migrate -db <database>:
  Create or upgrade the scan history schema in the given SQLite database.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	logger := zerolog.Ctx(ctx)

	logger.Info().Str("db", c.dbPath).Msg("running database migrations")
	version, err := db.RunMigrations(c.dbPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		return subcommands.ExitFailure
	}
	logger.Info().Uint("version", version).Msg("database migrations completed")

	return subcommands.ExitSuccess
}
