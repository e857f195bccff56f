package serve

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/google/subcommands"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nrtkbb/dupscan/api"
	"github.com/nrtkbb/dupscan/app"
	"github.com/nrtkbb/dupscan/db"
)

type Command struct {
	dbPath string
	port   string
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve stored scan reports over HTTP" }
func (*Command) Usage() string {
	return `serve -db <database> [-port <port>]:
  Start a read-only REST API over the scans stored with "scan -db".
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.StringVar(&c.port, "port", "8080", "port to listen on")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	appCtx := app.NewAppContext(ctx)
	defer appCtx.PerformCleanup()
	appCtx.SetupSignalHandling()
	logger := appCtx.Logger()

	database, err := db.SetupDatabase(appCtx.Context, c.dbPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to setup database")
		return subcommands.ExitFailure
	}
	appCtx.DB = database

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.NewHandler(database).Register(e)

	go func() {
		<-appCtx.Context.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().Str("port", c.port).Msg("starting server")
	if err := e.Start(":" + c.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("failed to start server")
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
