package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bacnet_device_sim/internal/config"
	"bacnet_device_sim/internal/control"
	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/metrics"
	"bacnet_device_sim/internal/server"
	"bacnet_device_sim/internal/simulation"
	"bacnet_device_sim/internal/telemetry"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadSimulator(config.NewSimulatorFlags(), os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		logger.Get(logger.InfoLevel).Fatalw("configuration fault", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	metrics.Init()

	boiler, err := device.NewDefaultBoiler(cfg.DeviceID)
	if err != nil {
		log.Fatalw("failed to create device", "err", err, "device_id", cfg.DeviceID)
	}

	dispatcher, err := newDispatcher(cfg.Telemetry, log)
	if err != nil {
		log.Fatalw("configuration fault", "err", err, "transport", cfg.Telemetry.Transport)
	}
	defer func() {
		if cerr := dispatcher.Close(); cerr != nil {
			log.Warnw("telemetry_close_failed", "err", cerr)
		}
	}()

	sim, err := simulation.New(boiler, simulation.Parameters{
		Capacity:       cfg.Capacity,
		RatedPower:     cfg.RatedPower,
		Ambient:        cfg.Ambient,
		Setpoint:       cfg.InitialSetpoint,
		Mode:           simulation.Mode(cfg.SimulationMode),
		SpeedFactor:    cfg.SpeedFactor,
		ReportInterval: cfg.Telemetry.Interval,
	}, dispatcher, log)
	if err != nil {
		log.Fatalw("configuration fault", "err", err)
	}

	// context for the tick loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sim.Run(ctx, cfg.Tick)

	// start control API on the device address
	srv := &server.Server{}
	apiHandler := control.NewHandler(sim, boiler.Store(), log)
	runHTTPServer(srv, cfg.Addr(), apiHandler, log)

	log.Infow("simulator_started",
		"device_id", cfg.DeviceID,
		"addr", cfg.Addr(),
		"simulation_mode", cfg.SimulationMode,
		"speed_factor", cfg.SpeedFactor,
		"transport", cfg.Telemetry.Transport,
	)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// newDispatcher builds the telemetry sender selected in config and wraps it.
func newDispatcher(cfg config.TelemetryConfig, log *logger.Logger) (*telemetry.Dispatcher, error) {
	sender, err := telemetry.NewSender(cfg)
	if err != nil {
		return nil, err
	}
	return telemetry.NewDispatcher(sender, cfg.Timeout, cfg.FailureCeiling, log), nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, handler *control.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(addr, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting control server", "err", err, "addr", addr)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down simulator...")

	// stop the tick loop; an in-flight upload is abandoned
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("control server forced to shutdown", "err", err)
	}
}
