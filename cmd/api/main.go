package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/horus-attendance/horus-backend-go/internal/app"
	"github.com/horus-attendance/horus-backend-go/internal/config"
	appHTTP "github.com/horus-attendance/horus-backend-go/internal/handler/http"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewRequestLogger(os.Stdout, cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// handlers
	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:             logger,
			AllowedOrigins:     cfg.HTTP.AllowedOrigins,
			RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		},
		container.JWT,
		appHTTP.Handlers{
			Report:     appHTTP.NewReportHandler(container.Report),
			Dashboard:  appHTTP.NewDashboardHandler(container.Dashboard),
			Attendance: appHTTP.NewAttendanceHandler(container.Attendance),
			User:       appHTTP.NewUserHandler(container.User),
			Department: appHTTP.NewDepartmentHandler(container.Department),
		},
	)

	// cron
	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler(ctx)
		cron.NewAttendanceJobs(container.Attendance, cfg.Cron.RunHour).RegisterJobs(scheduler)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	slog.Info("Server stopped")
}
