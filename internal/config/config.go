// Package config loads dashboard configuration from defaults, an optional
// config file and DCDN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chmdznr/dcdn-simulator/internal/simulator"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the full dashboard configuration
type Config struct {
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Network   NetworkConfig   `mapstructure:"network"`
	API       APIConfig       `mapstructure:"api"`
	Share     ShareConfig     `mapstructure:"share"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
}

// SimulatorConfig tunes the simulated uploads
type SimulatorConfig struct {
	Tick        time.Duration `mapstructure:"tick"`
	MaxStep     float64       `mapstructure:"max_step"`
	MinReplicas int           `mapstructure:"min_replicas"`
	MaxReplicas int           `mapstructure:"max_replicas"`
	Seed        uint64        `mapstructure:"seed"`
}

// NetworkConfig describes the simulated network connection
type NetworkConfig struct {
	Name         string        `mapstructure:"name"`
	ConnectDelay time.Duration `mapstructure:"connect_delay"`
}

// APIConfig holds the HTTP API settings
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// ShareConfig holds the share link settings
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CatalogConfig selects the node catalog database
type CatalogConfig struct {
	DSN string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	sim := simulator.DefaultConfig()
	v.SetDefault("simulator.tick", sim.Tick)
	v.SetDefault("simulator.max_step", sim.MaxStep)
	v.SetDefault("simulator.min_replicas", sim.MinReplicas)
	v.SetDefault("simulator.max_replicas", sim.MaxReplicas)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("network.name", "dCDN")
	v.SetDefault("network.connect_delay", 2*time.Second)
	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("share.base_url", "https://dcdn.network")
	v.SetDefault("catalog.dsn", ":memory:")
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DCDN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %v", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Simulator.Tick <= 0 {
		return fmt.Errorf("%w: simulator.tick must be positive, got %v", ErrInvalid, c.Simulator.Tick)
	}
	if c.Simulator.MaxStep <= 0 {
		return fmt.Errorf("%w: simulator.max_step must be positive, got %v", ErrInvalid, c.Simulator.MaxStep)
	}
	if c.Simulator.MinReplicas < 1 || c.Simulator.MaxReplicas < c.Simulator.MinReplicas {
		return fmt.Errorf("%w: replica range [%d,%d]", ErrInvalid, c.Simulator.MinReplicas, c.Simulator.MaxReplicas)
	}
	if c.Network.ConnectDelay < 0 {
		return fmt.Errorf("%w: network.connect_delay must not be negative", ErrInvalid)
	}
	return nil
}

// SimulatorSettings converts the simulator section for simulator.New
func (c *Config) SimulatorSettings() simulator.Config {
	return simulator.Config{
		Tick:        c.Simulator.Tick,
		MaxStep:     c.Simulator.MaxStep,
		MinReplicas: c.Simulator.MinReplicas,
		MaxReplicas: c.Simulator.MaxReplicas,
	}
}
