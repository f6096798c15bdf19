package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/atelier/internal/alttext"
	claudealt "github.com/vbonduro/atelier/internal/alttext/claude"
	ollamaalt "github.com/vbonduro/atelier/internal/alttext/ollama"
	"github.com/vbonduro/atelier/internal/auth"
	"github.com/vbonduro/atelier/internal/blobstore"
	"github.com/vbonduro/atelier/internal/blobstore/local"
	"github.com/vbonduro/atelier/internal/blobstore/supabase"
	"github.com/vbonduro/atelier/internal/config"
	"github.com/vbonduro/atelier/internal/content"
	"github.com/vbonduro/atelier/internal/db"
	"github.com/vbonduro/atelier/internal/logging"
	"github.com/vbonduro/atelier/internal/service"
	"github.com/vbonduro/atelier/internal/store"
	"github.com/vbonduro/atelier/internal/web"
	"github.com/vbonduro/atelier/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	dialect := db.Dialect(cfg.DBDriver)
	source := cfg.DBPath
	if dialect == db.Postgres {
		source = cfg.DatabaseURL
	}
	database, err := db.Open(dialect, source)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	deps := web.Deps{Templates: templates.FS, Logger: logger}
	opts := web.Options{ImageHosts: cfg.ImageHosts, CORSOrigins: cfg.CORSOrigins}

	var blobs blobstore.Store
	switch cfg.BlobBackend {
	case "supabase":
		logger.Info("using Supabase storage", "url", cfg.SupabaseURL)
		blobs = supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		opts.BlobBaseURL = cfg.SupabaseURL
	default:
		media, err := local.New(cfg.BlobLocalPath, cfg.PublicBaseURL)
		if err != nil {
			return err
		}
		logger.Info("using local media storage", "path", cfg.BlobLocalPath)
		blobs = media
		deps.Media = media
		opts.BlobBaseURL = cfg.PublicBaseURL
	}

	deps.Sections = content.NewService(
		content.NewStore(database, dialect),
		blobs,
		newDescriber(cfg, logger),
		cfg.ImageHosts,
		logger,
	)
	deps.Inquiries = service.NewInquiryService(store.NewInquiryStore(database, dialect), logger)

	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set; admin sessions will not survive a restart")
		secret = auth.GenerateSecret()
	}
	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}
	deps.Auth = auth.NewManager(cfg.AdminPasswordHash, secret, cfg.JWTTTL)

	srv := web.NewServer(deps, opts).HTTPServer(cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newDescriber(cfg *config.Config, logger *slog.Logger) alttext.Describer {
	switch cfg.AltTextBackend {
	case "claude":
		logger.Info("using Claude alt text backend", "model", cfg.ClaudeModel)
		return claudealt.New(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama alt text backend", "model", cfg.OllamaModel)
		return ollamaalt.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}
