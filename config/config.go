package config

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/antihub/antihook/internal/healthcheck"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	EnvPrefix          = "ANTIHOOK"
	LegacyServerURLEnv = "KIRO_SERVER_URL"
	DefaultBridgeAddr  = "127.0.0.1:4875"
)

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"timeout"`
}

type BridgeConfig struct {
	Address string `mapstructure:"address"`
}

type Config struct {
	Environment string        `mapstructure:"environment"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Health      HealthConfig  `mapstructure:"health"`
	Bridge      BridgeConfig  `mapstructure:"bridge"`
	// ServerURL overrides the saved configuration when set. It is kept raw;
	// configstore.Store.Resolve validates it when a command needs it.
	ServerURL string `mapstructure:"server_url"`
}

// Load reads settings.yaml from the given directories, or from
// ~/.config/antihook and the working directory when none are given, then
// applies environment overrides and validates the result. A missing
// settings file is not an error.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("health.timeout", healthcheck.DefaultTimeout.String())
	v.SetDefault("bridge.address", DefaultBridgeAddr)
	v.SetDefault("server_url", "")

	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = defaultSearchPaths()
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server_url", EnvPrefix+"_SERVER_URL", LegacyServerURLEnv); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read settings file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("settings file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded settings file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal settings", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid settings", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// HealthTimeout returns the parsed probe timeout. Validate guarantees it parses.
func (c *Config) HealthTimeout() time.Duration {
	d, err := time.ParseDuration(c.Health.Timeout)
	if err != nil {
		return healthcheck.DefaultTimeout
	}
	return d
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Health,
			validation.Required,
			validation.By(func(value interface{}) error {
				hc, ok := value.(HealthConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a HealthConfig")
				}
				return validation.ValidateStruct(&hc,
					validation.Field(&hc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Bridge,
			validation.Required,
			validation.By(func(value interface{}) error {
				bc, ok := value.(BridgeConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a BridgeConfig")
				}
				return validation.ValidateStruct(&bc,
					validation.Field(&bc.Address,
						validation.Required,
						validation.By(ValidateHostPort),
					),
				)
			}),
		),
	)
}

// ValidateHostPort accepts "host:port" and ":port" listen addresses.
func ValidateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 8s, 500ms)")
	}
	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append([]string{filepath.Join(home, ".config", "antihook")}, paths...)
	}
	return paths
}
