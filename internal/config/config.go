// Package config loads the service configuration once at startup. The result
// is an immutable value passed explicitly to every component.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booth_dashboard/internal/device"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/registry"

	"github.com/spf13/viper"
)

// Device drivers.
const (
	DriverSim    = "sim"
	DriverModbus = "modbus"
)

const envPrefix = "BOOTH"

type Config struct {
	Port   string        `mapstructure:"port"`
	Log    LogConfig     `mapstructure:"log"`
	Device DeviceConfig  `mapstructure:"device"`
	Auth   AuthConfig    `mapstructure:"auth"`
	DB     DBConfig      `mapstructure:"db"`
	Server ServerConfig  `mapstructure:"server"`
	Points []PointConfig `mapstructure:"points"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DeviceConfig struct {
	Driver       string        `mapstructure:"driver"`
	Address      string        `mapstructure:"address"`
	SlaveID      uint8         `mapstructure:"slave_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
	SimTick      time.Duration `mapstructure:"sim_tick"`
}

// AuthConfig configures the shared-secret gate. An empty Secret leaves the
// gate open.
type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type DBConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// PointConfig is one configured point. Modbus is only read by the modbus
// driver.
type PointConfig struct {
	ID     string        `mapstructure:"id"`
	Kind   string        `mapstructure:"kind"`
	Scale  int           `mapstructure:"scale"`
	Label  string        `mapstructure:"label"`
	Modbus *ModbusConfig `mapstructure:"modbus"`
}

type ModbusConfig struct {
	Register  string `mapstructure:"register"`
	Address   uint16 `mapstructure:"address"`
	DataType  string `mapstructure:"data_type"`
	ByteOrder string `mapstructure:"byte_order"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("device.driver", DriverSim)
	v.SetDefault("device.address", "192.168.1.1:502")
	v.SetDefault("device.slave_id", 1)
	v.SetDefault("device.timeout", "5s")
	v.SetDefault("device.poll_interval", "1s")
	v.SetDefault("device.retry_backoff", "1.5s")
	v.SetDefault("device.settle_delay", "500ms")
	v.SetDefault("device.sim_tick", "200ms")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.path", "booth.db")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
}

// Load reads path, or configs/config.yml when path is empty, then applies
// BOOTH_* environment overrides and validates the result. A missing default
// config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks intervals, driver and point definitions.
func (c *Config) Validate() error {
	switch c.Device.Driver {
	case DriverSim, DriverModbus:
	default:
		return fmt.Errorf("config: unknown device driver %q", c.Device.Driver)
	}
	if c.Device.Address == "" {
		return errors.New("config: device.address is empty")
	}
	durations := map[string]time.Duration{
		"device.poll_interval": c.Device.PollInterval,
		"device.retry_backoff": c.Device.RetryBackoff,
		"device.settle_delay":  c.Device.SettleDelay,
		"device.timeout":       c.Device.Timeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", key)
		}
	}
	if c.Auth.Secret != "" && c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	if _, err := registry.New(c.MonitoredPoints()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Device.Driver == DriverModbus && len(c.RegisterMap()) == 0 {
		return errors.New("config: modbus driver needs at least one point with a modbus mapping")
	}
	return nil
}

// MonitoredPoints returns the configured points, or the built-in booth set
// when none are configured.
func (c *Config) MonitoredPoints() []models.MonitoredPoint {
	if len(c.Points) == 0 {
		return registry.BoothPoints()
	}
	out := make([]models.MonitoredPoint, len(c.Points))
	for i, p := range c.Points {
		out[i] = models.MonitoredPoint{
			ID:    p.ID,
			Kind:  models.PointKind(strings.ToLower(p.Kind)),
			Scale: p.Scale,
			Label: p.Label,
		}
	}
	return out
}

// RegisterMap returns the modbus location of every mapped point.
func (c *Config) RegisterMap() map[string]device.RegisterMap {
	out := make(map[string]device.RegisterMap)
	for _, p := range c.Points {
		if p.Modbus == nil {
			continue
		}
		out[p.ID] = device.RegisterMap{
			Register:  p.Modbus.Register,
			Address:   p.Modbus.Address,
			DataType:  p.Modbus.DataType,
			ByteOrder: p.Modbus.ByteOrder,
		}
	}
	return out
}
