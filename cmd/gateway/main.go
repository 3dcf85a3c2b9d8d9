package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Novip1906/tasks-notify/internal/app"
	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/pkg/logging"
)

func main() {
	cfg := config.MustLoadGatewayConfig()
	log := logging.SetupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewGatewayServer(ctx, cfg, log)
	if err != nil {
		log.Error("server init error", logging.Err(err))
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("server run error", logging.Err(err))
		os.Exit(1)
	}
}
