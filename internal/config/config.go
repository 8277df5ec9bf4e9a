package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "BOILER"
	defaultConfigName = "config"
	DefaultConfigDir  = "configs"
)

// Telemetry transports.
const (
	TransportHTTP  = "http"
	TransportMQTT  = "mqtt"
	TransportKafka = "kafka"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	QoS      int    `mapstructure:"qos"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// TelemetryConfig selects where and how often device snapshots are shipped.
type TelemetryConfig struct {
	Transport      string        `mapstructure:"transport"`
	URL            string        `mapstructure:"url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	FailureCeiling int           `mapstructure:"failure_ceiling"`
	Interval       int           `mapstructure:"interval"`
	MQTT           MQTTConfig    `mapstructure:"mqtt"`
	Kafka          KafkaConfig   `mapstructure:"kafka"`
}

func (c TelemetryConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: telemetry.timeout must be positive", ErrInvalidConfig)
	}
	if c.FailureCeiling <= 0 {
		return fmt.Errorf("%w: telemetry.failure_ceiling must be positive", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: telemetry.interval must be positive", ErrInvalidConfig)
	}
	switch c.Transport {
	case TransportHTTP:
		if c.URL == "" {
			return fmt.Errorf("%w: telemetry.url is required for the http transport", ErrInvalidConfig)
		}
	case TransportMQTT:
		if c.MQTT.Broker == "" || c.MQTT.Topic == "" {
			return fmt.Errorf("%w: telemetry.mqtt.broker and telemetry.mqtt.topic are required", ErrInvalidConfig)
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return fmt.Errorf("%w: telemetry.mqtt.qos must be 0, 1 or 2", ErrInvalidConfig)
		}
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("%w: telemetry.kafka.brokers and telemetry.kafka.topic are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown telemetry.transport %q", ErrInvalidConfig, c.Transport)
	}
	return nil
}

// newViper returns a viper instance reading <dir>/config.yml and BOILER_* variables.
// A missing config file is not an error; defaults and the environment still apply.
func newViper(dir string) (*viper.Viper, error) {
	v := viper.New()
	if dir == "" {
		dir = DefaultConfigDir
	}
	v.AddConfigPath(dir) // configs/config.yml
	v.SetConfigName(defaultConfigName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config in %q: %w", dir, err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("simulator.device_id", 1)
	v.SetDefault("simulator.initial_setpoint", 70.0)
	v.SetDefault("simulator.simulation_mode", 0)
	v.SetDefault("simulator.speed_factor", 1)
	v.SetDefault("simulator.capacity", 300.0)
	v.SetDefault("simulator.rated_power", 210.0)
	v.SetDefault("simulator.ambient", 25.0)
	v.SetDefault("simulator.tick", time.Second)

	v.SetDefault("telemetry.transport", TransportHTTP)
	v.SetDefault("telemetry.url", "http://localhost:8000/device/upload")
	v.SetDefault("telemetry.api_key", "")
	v.SetDefault("telemetry.timeout", 4*time.Second)
	v.SetDefault("telemetry.failure_ceiling", 5)
	v.SetDefault("telemetry.interval", 10)
	v.SetDefault("telemetry.mqtt.broker", "")
	v.SetDefault("telemetry.mqtt.topic", "boilers/telemetry")
	v.SetDefault("telemetry.mqtt.client_id", "boiler-simulator")
	v.SetDefault("telemetry.mqtt.qos", 1)
	v.SetDefault("telemetry.kafka.brokers", []string{})
	v.SetDefault("telemetry.kafka.topic", "boiler.telemetry")

	v.SetDefault("collector.port", "8000")
	v.SetDefault("collector.api_key", "")
	v.SetDefault("collector.signing_key", "")
	v.SetDefault("collector.token_ttl", time.Hour)
	v.SetDefault("collector.ws_origins", []string{})
	v.SetDefault("db.path", "collector.db")
}
