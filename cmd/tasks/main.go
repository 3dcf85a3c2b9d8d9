package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Novip1906/tasks-notify/internal/app"
	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/pkg/logging"
)

func main() {
	cfg := config.MustLoadConfig()
	log := logging.SetupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewServer(cfg, log)
	if err != nil {
		log.Error("server init error", logging.Err(err))
		os.Exit(1)
	}

	log.Info("starting server",
		slog.String("address", cfg.TasksAddress),
		slog.String("provider", cfg.Notifications.Provider),
	)
	if err := srv.Run(ctx); err != nil {
		log.Error("server run error", logging.Err(err))
		os.Exit(1)
	}
}
