// Package server wires the configuration, database, services and HTTP API
// together and runs the server until it receives a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/logging"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/analysisclient"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/api"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/archive"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/config"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server

	analyses *services.AnalysisService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var archiver services.Archiver
	if c.ArchiveEnabled() {
		a, err := archive.NewS3ArchiverFromConfig(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		archiver = a
		logger.Info(ctx, "analysis archive enabled", "bucket", c.S3Bucket)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	engine := analysisclient.NewClient(c.AnalysisServiceURL, c.AnalysisTimeout)

	us := services.NewUserService(db, rm, tokens)
	hs := services.NewHoldingService(db, rm)
	as := services.NewAnalysisService(db, rm, engine, archiver, c.ArchiveTimeout, logger.With("component", "analysis"))

	authn := auth.NewAuthenticator(tokens, rm.Users(db), logger.With("component", "auth"))
	h := api.NewHandler(us, hs, as, db, logger)

	srv := &http.Server{
		Addr:              c.EndpointAddrHTTP,
		Handler:           api.NewRouter(h, authn),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{config: c, logger: logger, db: db, server: srv, analyses: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a signal arrives, then shuts the
// server down, waits for pending archive writes and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	err := serve(ctx, app.server)
	app.analyses.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		return err
	}

	app.logger.Info(ctx, "app stopped")
	return nil
}

// serve runs srv until ctx is done and then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
