package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// CollectorConfig is everything cmd/collector needs to serve uploads.
type CollectorConfig struct {
	Port       string        `mapstructure:"port"`
	APIKey     string        `mapstructure:"api_key"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// WSOrigins lists browser origins allowed to open /ws besides the collector's own host.
	WSOrigins []string `mapstructure:"ws_origins"`

	DBPath string    `mapstructure:"-"`
	Log    LogConfig `mapstructure:"-"`
}

func (c CollectorConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: collector.port is required", ErrInvalidConfig)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: collector.api_key is required", ErrInvalidConfig)
	}
	if c.SigningKey == "" {
		return fmt.Errorf("%w: collector.signing_key is required", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: collector.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db.path is required", ErrInvalidConfig)
	}
	return nil
}

// NewCollectorFlags declares the command line of cmd/collector.
func NewCollectorFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("collector", pflag.ContinueOnError)
	fs.String("config", DefaultConfigDir, "directory holding config.yml")
	fs.String("port", "", "HTTP port (overrides collector.port)")
	return fs
}

// LoadCollector parses args and reads the collector settings.
func LoadCollector(fs *pflag.FlagSet, args []string) (CollectorConfig, error) {
	if err := fs.Parse(args); err != nil {
		return CollectorConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	dir, _ := fs.GetString("config")
	v, err := newViper(dir)
	if err != nil {
		return CollectorConfig{}, err
	}
	if f := fs.Lookup("port"); f != nil && f.Changed {
		v.Set("collector.port", f.Value.String())
	}

	var file struct {
		Collector CollectorConfig `mapstructure:"collector"`
		DB        struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"db"`
		Log LogConfig `mapstructure:"log"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return CollectorConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := file.Collector
	cfg.DBPath = file.DB.Path
	cfg.Log = file.Log

	if err := cfg.Validate(); err != nil {
		return CollectorConfig{}, err
	}
	return cfg, nil
}
