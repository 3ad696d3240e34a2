package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/athebyme/pidash/internal/adapters/secondary/logger"
	"github.com/athebyme/pidash/internal/config"
	"github.com/athebyme/pidash/internal/server"
)

func main() {
	configPath := flag.String("config", "./config.yml", "Path to YAML (or JSON) config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootstrapLogger := logger.NewSlogAdapter("error", false)
		bootstrapLogger.Error("Failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}
	log := logger.NewSlogAdapter(cfg.Log.Level, cfg.Log.Format == "json")
	log.Info("Configuration loaded",
		"listen_address", cfg.ListenAddress,
		"base_path", cfg.BasePath,
		"piholes", len(cfg.Piholes),
		"enabled", len(cfg.EnabledPiholes()),
		"session_store", cfg.Sessions.Store,
	)

	application, err := server.New(cfg, log)
	if err != nil {
		log.Error("Failed to build application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.Run(ctx)
	log.Info("Application finished")
}
