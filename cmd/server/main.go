// Command server runs the job-application tracking backend: an HTTP API
// over a SQLite-backed record store, a session-gated live dashboard feed,
// and single-flight orchestration of the external automation services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tverros/go-jobtrack-backend/internal/app"
	"github.com/tverros/go-jobtrack-backend/internal/automation"
	"github.com/tverros/go-jobtrack-backend/internal/config"
	"github.com/tverros/go-jobtrack-backend/internal/domain"
	httpapi "github.com/tverros/go-jobtrack-backend/internal/http"
	"github.com/tverros/go-jobtrack-backend/internal/observability"
	"github.com/tverros/go-jobtrack-backend/internal/recordstore"
	"github.com/tverros/go-jobtrack-backend/internal/repo"
	"github.com/tverros/go-jobtrack-backend/internal/services"
	"github.com/tverros/go-jobtrack-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Error().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("opening database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrating database failed")
	}

	records := recordstore.New(db)
	filters := services.NewFilterStore(db)
	creds := services.NewCredentialStore(db)
	scanner := automation.NewMailboxScanClient(cfg.Automation.MailboxScanURL, cfg.Automation.Timeout)
	applyBot := automation.NewApplyBotClient(cfg.Automation.ApplyBotURL, cfg.Automation.Timeout)
	orch := services.NewOrchestrator(scanner, applyBot, filters, cfg.Automation.AutoApplyEnabled)

	a := app.New(records, orch, filters, creds, domain.Status(cfg.DashboardStatusFilter))

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, a, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	a.SignOut(context.Background())
	log.Info().Msg("server stopped")
}
