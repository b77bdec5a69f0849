package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/config"
	"github.com/prepio/prepio-cli/internal/client/db"
	"github.com/prepio/prepio-cli/internal/client/repositories/credential"
	"github.com/prepio/prepio-cli/internal/client/services"
	"github.com/prepio/prepio-cli/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	apiClient api.Client
	creds     *credential.Cache
	session   services.SessionService
	documents services.DocumentService
	reader    *bufio.Reader
	database  *sql.DB

	Mode Mode

	// revoked is set by the unauthorized hook and forces the REPL back to
	// the logged-out prompt regardless of what was in flight.
	revoked atomic.Bool
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	database, err := db.Init(ctx, c.DBFile)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	creds, err := credential.NewCache(ctx, credential.NewSQLiteStore(database))
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	app := &App{config: c, logger: logger, creds: creds, database: database, reader: bufio.NewReader(os.Stdin)}

	// The rejection hook is registered with the transport exactly once, here.
	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, creds, app.onUnauthorized)

	app.apiClient = apiClient
	app.session = services.NewSessionService(apiClient, creds, app.onSessionRevoked)
	app.documents = services.NewDocumentService(apiClient)

	return app, nil
}

// onUnauthorized is invoked by the API transport on any authentication
// rejection, from whichever endpoint produced it.
func (a *App) onUnauthorized() {
	if a.session != nil {
		a.session.HandleUnauthorized()
	}
}

func (a *App) onSessionRevoked() {
	a.revoked.Store(true)
	if a.logger != nil {
		a.logger.Warn(context.Background(), "session revoked by server")
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		if a.logger != nil {
			a.logger.Info(context.Background(), "connectivity mode changed", "mode", mode)
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.apiClient.Close()
		_ = a.database.Close()
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return services.Guard(a.session.CredentialPresent(), a.session.View()) != services.GuardRedirectLogin
}

// requireAuth is the access-guard check run before every protected command.
// Missing credential redirects immediately; a pending identity check is
// resolved on the spot instead of flashing protected content.
func (a *App) requireAuth(ctx context.Context) bool {
	switch services.Guard(a.session.CredentialPresent(), a.session.View()) {
	case services.GuardAllow:
		return true
	case services.GuardLoading:
		v := a.session.Refresh(ctx)
		if v.Authenticated {
			return true
		}
	}
	printlnFn("Please login first.")
	return false
}

// StartOnlineStatusWatcher probes backend reachability on the given
// interval, retrying each probe briefly before declaring the mode offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := retry.Do(probeCtx, retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond)), func(ctx context.Context) error {
				if err := a.apiClient.Ping(ctx); err != nil {
					return retry.RetryableError(err)
				}
				return nil
			})
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
