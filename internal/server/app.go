// Package server initializes and runs the Pass-Vault application server.
// It opens the database, applies migrations, wires services, and starts the
// HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/passvault/passvault/internal/logging"
	"github.com/passvault/passvault/internal/server/auth"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/server/httpapi"
	"github.com/passvault/passvault/internal/server/mail"
	"github.com/passvault/passvault/internal/server/repositories/repomanager"
	"github.com/passvault/passvault/internal/server/services"
	"github.com/passvault/passvault/internal/timex"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	clock := timex.RealClock{}
	codec := auth.NewCodec([]byte(cfg.SecretKey), clock)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.SMTPPassword)

	otpService := services.NewOtpService(db, rm, mailer, clock, cfg)
	resetService := services.NewResetService(db, rm, codec, mailer, clock, cfg)
	authService := services.NewAuthService(db, rm, codec, otpService, resetService, clock, cfg)
	vaultService := services.NewVaultService(db, rm)

	srv := httpapi.NewServer(cfg, logger, codec, authService, vaultService)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
