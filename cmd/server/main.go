package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinadmin/clinadmin/internal/api"
	"github.com/clinadmin/clinadmin/internal/career"
	"github.com/clinadmin/clinadmin/internal/caregiver"
	"github.com/clinadmin/clinadmin/internal/config"
	"github.com/clinadmin/clinadmin/internal/database"
	"github.com/clinadmin/clinadmin/internal/group"
	"github.com/clinadmin/clinadmin/internal/patient"
	"github.com/clinadmin/clinadmin/internal/team"
	"github.com/clinadmin/clinadmin/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	careerRepo := career.NewRepository(db.Pool())
	userRepo := user.NewRepository(db.Pool())

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		GroupRepo:     group.NewRepository(db.Pool()),
		CareerRepo:    careerRepo,
		CaregiverRepo: caregiver.NewRepository(db.Pool()),
		PatientRepo:   patient.NewRepository(db.Pool()),
		UserRepo:      userRepo,
		UserService:   user.NewService(userRepo, careerRepo, cfg.BcryptCost),
		TeamService:   team.NewService(team.NewStore(db.Pool())),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting clinadmin server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
