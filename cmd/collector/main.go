package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bacnet_device_sim/internal/config"
	"bacnet_device_sim/internal/handlers"
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/metrics"
	"bacnet_device_sim/internal/repository"
	"bacnet_device_sim/internal/repository/db"
	"bacnet_device_sim/internal/server"
	"bacnet_device_sim/internal/service"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadCollector(config.NewCollectorFlags(), os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	metrics.Init()

	// open DB
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.AuthOptions{
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
	})
	apiHandler := handlers.NewHandler(services, cfg.APIKey, log, cfg.WSOrigins...)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("collector_started", "port", cfg.Port, "db", cfg.DBPath)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight uploads to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
