// Package config loads the optional .tinysplit.yaml file.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/tinysplit"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".tinysplit.yaml"

// Store drivers.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the full contents of a .tinysplit.yaml file.
type Config struct {
	Arena  LimitConfig  `mapstructure:"arena"`
	Stack  LimitConfig  `mapstructure:"stack"`
	Output OutputConfig `mapstructure:"output"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// LimitConfig sizes a growable buffer. Zero means the built-in default
// capacity, and no limit.
type LimitConfig struct {
	Capacity int `mapstructure:"capacity"`
	Limit    int `mapstructure:"limit"`
}

// OutputConfig selects how split prints results.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Driver     string           `mapstructure:"driver"`
	Path       string           `mapstructure:"path"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Encryption EncryptionConfig `mapstructure:"encryption"`

	// Redact lists patterns; matching scopes are masked before they are stored.
	Redact []string `mapstructure:"redact"`
}

// EncryptionConfig holds base64-encoded AES-256 keys. An empty Key disables
// encryption at rest.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// RedisConfig is used when store.driver is redis.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP server started by serve.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Output: OutputConfig{Format: FormatText, Color: "auto"},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   ".tinysplit/sessions",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tinysplit:session:",
			},
		},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path onto the defaults. An empty path tries DefaultFile and
// falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges a generic map onto cfg. Strings are accepted for numbers and
// durations ("30s"), and unknown keys are rejected.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks enumerated values and limits.
func (c Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	switch c.Store.Driver {
	case DriverFile, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Arena.Capacity < 0 || c.Arena.Limit < 0 || c.Stack.Capacity < 0 || c.Stack.Limit < 0 {
		return errors.New("arena and stack sizes must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Store.Encryption.Key == "" && len(c.Store.Encryption.FallbackKeys) > 0 {
		return errors.New("store.encryption.fallback_keys needs store.encryption.key")
	}
	return nil
}

// Keys decodes the encryption keys. It returns a nil active key when
// encryption is disabled.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if e.Key == "" {
		return nil, nil, nil
	}
	if active, err = base64.StdEncoding.DecodeString(e.Key); err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// SessionOptions translates the arena and stack sizes into session options.
func (c Config) SessionOptions() []tinysplit.Option {
	var opts []tinysplit.Option
	if c.Arena.Capacity > 0 {
		opts = append(opts, tinysplit.WithArenaCapacity(c.Arena.Capacity))
	}
	if c.Arena.Limit > 0 {
		opts = append(opts, tinysplit.WithArenaLimit(c.Arena.Limit))
	}
	if c.Stack.Capacity > 0 {
		opts = append(opts, tinysplit.WithStackCapacity(c.Stack.Capacity))
	}
	if c.Stack.Limit > 0 {
		opts = append(opts, tinysplit.WithMaxDepth(c.Stack.Limit))
	}
	return opts
}
