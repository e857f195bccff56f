package app

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nrtkbb/dupscan/models"
	"github.com/rs/zerolog"
)

type AppContext struct {
	DB      *sql.DB
	Stats   *models.ProgressStats
	Context context.Context
	Cancel  context.CancelFunc
	Cleanup sync.Once
}

func NewAppContext(parentCtx context.Context) *AppContext {
	ctx, cancel := context.WithCancel(parentCtx)
	return &AppContext{
		Context: ctx,
		Cancel:  cancel,
		Stats:   NewProgressStats(),
	}
}

func NewProgressStats() *models.ProgressStats {
	return &models.ProgressStats{StartTime: time.Now()}
}

func (app *AppContext) Logger() *zerolog.Logger {
	return zerolog.Ctx(app.Context)
}

func (app *AppContext) PerformCleanup() {
	app.Cleanup.Do(func() {
		logger := app.Logger()
		app.Cancel()

		if app.DB != nil {
			logger.Debug().Msg("closing database")

			// Force WAL checkpoint before closing
			if _, err := app.DB.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				logger.Warn().Err(err).Msg("WAL checkpoint failed")
			}
			if err := app.DB.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing database failed")
			}
		}
	})
}

// SetupSignalHandling cancels the app context on the first SIGINT/SIGTERM
// and exits on a second one within five seconds.
func (app *AppContext) SetupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var forceQuit atomic.Bool
	logger := app.Logger()

	go func() {
		for {
			select {
			case <-app.Context.Done():
				signal.Stop(sigChan)
				return
			case sig := <-sigChan:
				logger.Warn().Str("signal", sig.String()).Msg("received signal")
				if forceQuit.Load() {
					logger.Error().Msg("forcing immediate shutdown")
					os.Exit(1)
				}

				forceQuit.Store(true)
				logger.Warn().Msg("press Ctrl+C again to force quit")
				app.Cancel()

				go func() {
					time.Sleep(5 * time.Second)
					forceQuit.Store(false)
				}()
			}
		}
	}()
}
