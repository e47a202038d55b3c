package main

import (
	"context"
	"flag"
	"movielib/proj/internal/api/tasks"
	"movielib/proj/internal/config"
	"movielib/proj/internal/lib/logger"
	"movielib/proj/internal/services"
	"movielib/proj/internal/storage/postgres"
	"os"
	"time"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer storage.Conn.Close()
	log.Info("database connection established")

	bgTasks := tasks.New(log, cfg.BgTasks.MaxWorkers, cfg.BgTasks.MaxQueueSize)
	bgTasks.Run()

	app := NewApplication(cfg, log, services.New(log, cfg, storage, bgTasks))
	if err := app.serve(bgTasks); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}
