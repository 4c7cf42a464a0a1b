package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/frozpass/vaultpanel/internal/adapter/driven/sqlite"
	"github.com/frozpass/vaultpanel/internal/adapter/driven/vaultapi"
	"github.com/frozpass/vaultpanel/internal/adapter/driving/web"
	"github.com/frozpass/vaultpanel/internal/application"
	"github.com/frozpass/vaultpanel/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_url", cfg.APIBaseURL,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the snapshot cache (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("snapshot cache opened", "path", cfg.DBPath)

	// 4. Run migrations on the writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters and services.
	snapshots := sqliteadapter.NewSnapshotRepo(db)
	backend := vaultapi.NewClient(cfg.APIBaseURL)

	vaultSvc := application.NewVaultService(backend, snapshots)
	adminSvc := application.NewAdminService(backend, snapshots)

	// 6. Create the web handler.
	secure := !isLoopback(cfg.ListenAddr)
	sessions := web.NewSessionStore(cfg.SecretKey, cfg.SessionTTL, secure)
	handler, err := web.NewHandler(vaultSvc, adminSvc, sessions, snapshots, slog.Default())
	if err != nil {
		return err
	}

	// 7. Wrap everything in CSRF protection. The CSRF key is derived from
	// the same secret as the session keys.
	csrfKey := sha256.Sum256([]byte(cfg.SecretKey + "csrf"))
	protect := csrf.Protect(csrfKey[:],
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           protect(handler.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("vaultpanel started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// isLoopback reports whether the listen address is local-only development,
// where cookies cannot require HTTPS.
func isLoopback(addr string) bool {
	return strings.HasPrefix(addr, "127.0.0.1") || strings.HasPrefix(addr, "localhost")
}
