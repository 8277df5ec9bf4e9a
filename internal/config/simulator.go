package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// SimulatorConfig is everything cmd/simulator needs before the model starts.
type SimulatorConfig struct {
	DeviceIP   string `mapstructure:"-"`
	DevicePort int    `mapstructure:"-"`

	DeviceID        int           `mapstructure:"device_id"`
	InitialSetpoint float64       `mapstructure:"initial_setpoint"`
	SimulationMode  int           `mapstructure:"simulation_mode"`
	SpeedFactor     int           `mapstructure:"speed_factor"`
	Capacity        float64       `mapstructure:"capacity"`
	RatedPower      float64       `mapstructure:"rated_power"`
	Ambient         float64       `mapstructure:"ambient"`
	Tick            time.Duration `mapstructure:"tick"`

	Telemetry TelemetryConfig `mapstructure:"-"`
	Log       LogConfig       `mapstructure:"-"`
}

// Addr is the host:port the control API listens on.
func (c SimulatorConfig) Addr() string {
	return net.JoinHostPort(c.DeviceIP, strconv.Itoa(c.DevicePort))
}

func (c SimulatorConfig) Validate() error {
	if net.ParseIP(c.DeviceIP) == nil {
		return fmt.Errorf("%w: device ip %q is not an IP address", ErrInvalidConfig, c.DeviceIP)
	}
	if c.DevicePort < 1 || c.DevicePort > 65535 {
		return fmt.Errorf("%w: device port %d out of range", ErrInvalidConfig, c.DevicePort)
	}
	if c.DeviceID < 1 {
		return fmt.Errorf("%w: device id must be positive", ErrInvalidConfig)
	}
	if c.SimulationMode != 0 && c.SimulationMode != 1 {
		return fmt.Errorf("%w: simulation mode must be 0 or 1, got %d", ErrInvalidConfig, c.SimulationMode)
	}
	if c.SpeedFactor < 1 {
		return fmt.Errorf("%w: speed factor must be a positive integer, got %d", ErrInvalidConfig, c.SpeedFactor)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: simulator.tick must be positive", ErrInvalidConfig)
	}
	return c.Telemetry.Validate()
}

// NewSimulatorFlags declares the command line of cmd/simulator.
func NewSimulatorFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("simulator", pflag.ContinueOnError)
	fs.String("config", DefaultConfigDir, "directory holding config.yml")
	fs.Int("device-id", 1, "device instance id")
	fs.Float64("initial-setpoint", 70, "supply water setpoint in °C")
	fs.Int("simulation-mode", 0, "0 = nominal, 1 = low pressure fault at start-up")
	fs.Int("speed-factor", 1, "simulated seconds per tick")
	fs.String("transport", TransportHTTP, "telemetry transport: http, mqtt or kafka")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: simulator <deviceIP> <devicePort> [flags]")
		fs.PrintDefaults()
	}
	return fs
}

var simulatorFlagKeys = map[string]string{
	"device-id":        "simulator.device_id",
	"initial-setpoint": "simulator.initial_setpoint",
	"simulation-mode":  "simulator.simulation_mode",
	"speed-factor":     "simulator.speed_factor",
	"transport":        "telemetry.transport",
}

// LoadSimulator parses args, binds the flags over config file and environment,
// and validates the result. Any error is a configuration fault.
func LoadSimulator(fs *pflag.FlagSet, args []string) (SimulatorConfig, error) {
	if err := fs.Parse(args); err != nil {
		return SimulatorConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fs.NArg() != 2 {
		return SimulatorConfig{}, fmt.Errorf("%w: expected <deviceIP> <devicePort>, got %d arguments", ErrInvalidConfig, fs.NArg())
	}

	dir, _ := fs.GetString("config")
	v, err := newViper(dir)
	if err != nil {
		return SimulatorConfig{}, err
	}
	for flag, key := range simulatorFlagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return SimulatorConfig{}, fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}

	var file struct {
		Simulator SimulatorConfig `mapstructure:"simulator"`
		Telemetry TelemetryConfig `mapstructure:"telemetry"`
		Log       LogConfig       `mapstructure:"log"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return SimulatorConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := file.Simulator
	cfg.Telemetry = file.Telemetry
	cfg.Log = file.Log

	cfg.DeviceIP = fs.Arg(0)
	port, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return SimulatorConfig{}, fmt.Errorf("%w: device port %q: %v", ErrInvalidConfig, fs.Arg(1), err)
	}
	cfg.DevicePort = port

	if err := cfg.Validate(); err != nil {
		return SimulatorConfig{}, err
	}
	return cfg, nil
}
