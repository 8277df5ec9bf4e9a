package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadSimulator_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadSimulator(NewSimulatorFlags(), []string{"--config", dir, "127.0.0.1", "47808"})
	if err != nil {
		t.Fatalf("LoadSimulator: %v", err)
	}

	if cfg.DeviceID != 1 || cfg.SpeedFactor != 1 || cfg.SimulationMode != 0 || cfg.InitialSetpoint != 70 {
		t.Fatalf("unexpected simulator defaults: %+v", cfg)
	}
	if cfg.Tick != time.Second {
		t.Errorf("tick: got %v, want 1s", cfg.Tick)
	}
	tc := cfg.Telemetry
	if tc.Transport != TransportHTTP || tc.Timeout != 4*time.Second || tc.FailureCeiling != 5 || tc.Interval != 10 {
		t.Fatalf("unexpected telemetry defaults: %+v", tc)
	}
	if got := cfg.Addr(); got != "127.0.0.1:47808" {
		t.Errorf("Addr: got %q", got)
	}
}

func TestLoadSimulator_FileEnvAndFlags(t *testing.T) {
	dir := writeConfig(t, `
log:
  level: debug
simulator:
  device_id: 12
  speed_factor: 2
  tick: 250ms
telemetry:
  transport: mqtt
  mqtt:
    broker: tcp://broker:1883
    topic: site/boilers
`)
	t.Setenv("BOILER_TELEMETRY_API_KEY", "secret")

	cfg, err := LoadSimulator(NewSimulatorFlags(), []string{
		"--config", dir, "--speed-factor", "5", "--simulation-mode", "1", "10.0.0.5", "47808",
	})
	if err != nil {
		t.Fatalf("LoadSimulator: %v", err)
	}

	if cfg.DeviceID != 12 {
		t.Errorf("device id from file: got %d", cfg.DeviceID)
	}
	if cfg.SpeedFactor != 5 {
		t.Errorf("speed factor from flag: got %d", cfg.SpeedFactor)
	}
	if cfg.SimulationMode != 1 {
		t.Errorf("simulation mode from flag: got %d", cfg.SimulationMode)
	}
	if cfg.Tick != 250*time.Millisecond {
		t.Errorf("tick from file: got %v", cfg.Tick)
	}
	if cfg.Telemetry.APIKey != "secret" {
		t.Errorf("api key from env: got %q", cfg.Telemetry.APIKey)
	}
	if cfg.Telemetry.MQTT.Broker != "tcp://broker:1883" || cfg.Telemetry.MQTT.Topic != "site/boilers" {
		t.Errorf("mqtt settings: %+v", cfg.Telemetry.MQTT)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %q", cfg.Log.Level)
	}
}

func TestLoadSimulator_ConfigurationFaults(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"missing arguments", []string{"127.0.0.1"}},
		{"bad ip", []string{"boiler", "47808"}},
		{"port not a number", []string{"127.0.0.1", "bacnet"}},
		{"port out of range", []string{"127.0.0.1", "70000"}},
		{"bad mode", []string{"--simulation-mode", "2", "127.0.0.1", "47808"}},
		{"zero speed", []string{"--speed-factor", "0", "127.0.0.1", "47808"}},
		{"unknown transport", []string{"--transport", "carrier-pigeon", "127.0.0.1", "47808"}},
		{"kafka without brokers", []string{"--transport", "kafka", "127.0.0.1", "47808"}},
		{"unknown flag", []string{"--turbo", "127.0.0.1", "47808"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := NewSimulatorFlags()
			fs.SetOutput(nopWriter{})
			args := append([]string{"--config", t.TempDir()}, tc.args...)
			if _, err := LoadSimulator(fs, args); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadCollector(t *testing.T) {
	dir := writeConfig(t, `
collector:
  port: "9000"
  token_ttl: 30m
  ws_origins:
    - https://ops.example.net
db:
  path: /tmp/readings.db
`)
	if _, err := LoadCollector(NewCollectorFlags(), []string{"--config", dir}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected missing api key to be a configuration fault, got %v", err)
	}

	t.Setenv("BOILER_COLLECTOR_API_KEY", "device-key")
	t.Setenv("BOILER_COLLECTOR_SIGNING_KEY", "jwt-key")
	cfg, err := LoadCollector(NewCollectorFlags(), []string{"--config", dir, "--port", "9100"})
	if err != nil {
		t.Fatalf("LoadCollector: %v", err)
	}
	if cfg.Port != "9100" || cfg.APIKey != "device-key" || cfg.SigningKey != "jwt-key" {
		t.Fatalf("unexpected collector config: %+v", cfg)
	}
	if cfg.TokenTTL != 30*time.Minute || cfg.DBPath != "/tmp/readings.db" {
		t.Fatalf("unexpected collector config: %+v", cfg)
	}
	if len(cfg.WSOrigins) != 1 || cfg.WSOrigins[0] != "https://ops.example.net" {
		t.Fatalf("ws origins: %v", cfg.WSOrigins)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
