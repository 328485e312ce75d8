package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/remotesign/internal/signer/http"
	"github.com/aussiebroadwan/remotesign/internal/signer/metrics"
	"github.com/aussiebroadwan/remotesign/internal/signer/service"
	"github.com/aussiebroadwan/remotesign/internal/signer/session"
	"github.com/aussiebroadwan/remotesign/pkg/signsdk"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the signing gateway with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	metrics  *metrics.Metrics
	sessions *session.Store
	service  *service.SigningService

	server *http.Server
	router *httpapi.Router
}

// New validates cfg and wires every dependency. Nothing is started.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "remotesign",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	sessions, err := session.NewStore([]byte(cfg.SessionSecret), cfg.SessionCookieSecure)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	app.sessions = sessions

	app.initServices()
	app.initHTTP()

	return app, nil
}

// NewService builds a SigningService talking to the configured provider.
// It is shared by the server and the one-shot CLI commands.
func NewService(cfg Config, rec service.Recorder) *service.SigningService {
	client := signsdk.NewClient(cfg.SDKConfig())
	return &service.SigningService{
		Tokens:    client,
		Signer:    client,
		ChainPath: cfg.CertificateChainPath,
		Metrics:   rec,
	}
}

func (app *Application) initServices() {
	app.service = NewService(app.cfg, app.metrics)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.service,
		app.sessions,
		app.metrics,
		httpapi.Readiness{
			ChainPath: app.cfg.CertificateChainPath,
			TokenURL:  app.cfg.TokenURL,
			SignURL:   app.cfg.SignURL,
		},
		BuildVersion,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
		// Leave room for the slowest upstream call.
		WriteTimeout: app.cfg.UpstreamTimeout*2 + 5*time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelWarn),
	}
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info("remotesign starting",
		"addr", ln.Addr().String(),
		"version", BuildVersion,
		"signer_environment", app.cfg.SignerEnvironment,
		"token_url", app.cfg.TokenURL,
		"sign_url", app.cfg.SignURL,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown requested", "cause", context.Cause(ctx))

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down remotesign...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return err
	}

	app.logger.Info("remotesign stopped")
	return nil
}
