package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/on-the-ground/sieve_ive_go/sieve"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	EnvLogLevel = "SIEVE_LOG_LEVEL"
	EnvMaxIndex = "SIEVE_MAX_INDEX"
)

// Config holds everything a host program needs to build an oracle and its actor.
type Config struct {
	Oracle OracleConfig `yaml:"oracle"`
	Actor  ActorConfig  `yaml:"actor"`
	Log    LogConfig    `yaml:"log"`
}

type OracleConfig struct {
	MaxIndex        int `yaml:"max_index"`
	InitialCapacity int `yaml:"initial_capacity"`
	GapFill         int `yaml:"gap_fill"`
}

type ActorConfig struct {
	BufferSize int `yaml:"buffer_size"`
	// Window is the size of the ascending reorder window for streamed queries.
	Window int `yaml:"window"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			MaxIndex:        sieve.DefaultMaxIndex,
			InitialCapacity: sieve.DefaultInitialCapacity,
			GapFill:         sieve.DefaultGapFill,
		},
		Actor: ActorConfig{
			BufferSize: 64,
			Window:     256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvMaxIndex); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxIndex, err)
		}
		c.Oracle.MaxIndex = n
	}
	return nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	switch {
	case c.Oracle.MaxIndex < 3:
		return fmt.Errorf("%w: oracle.max_index must be at least 3, got %d", ErrInvalidConfig, c.Oracle.MaxIndex)
	case c.Oracle.MaxIndex > sieve.MaxIndexLimit:
		return fmt.Errorf("%w: oracle.max_index must be at most %d, got %d", ErrInvalidConfig, sieve.MaxIndexLimit, c.Oracle.MaxIndex)
	case c.Oracle.InitialCapacity <= 0:
		return fmt.Errorf("%w: oracle.initial_capacity must be positive, got %d", ErrInvalidConfig, c.Oracle.InitialCapacity)
	case c.Oracle.GapFill < 0:
		return fmt.Errorf("%w: oracle.gap_fill must not be negative, got %d", ErrInvalidConfig, c.Oracle.GapFill)
	case c.Actor.BufferSize <= 0:
		return fmt.Errorf("%w: actor.buffer_size must be positive, got %d", ErrInvalidConfig, c.Actor.BufferSize)
	case c.Actor.Window <= 0:
		return fmt.Errorf("%w: actor.window must be positive, got %d", ErrInvalidConfig, c.Actor.Window)
	}
	return nil
}

// OracleOptions maps the oracle section onto sieve options.
func (c *Config) OracleOptions(logger *zap.Logger) []sieve.Option {
	return []sieve.Option{
		sieve.WithLogger(logger),
		sieve.WithMaxIndex(c.Oracle.MaxIndex),
		sieve.WithInitialCapacity(c.Oracle.InitialCapacity),
		sieve.WithGapFill(c.Oracle.GapFill),
	}
}
