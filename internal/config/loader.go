// Package config loads the server configuration from defaults, an optional
// YAML file, HOUSEKEEPING_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HOUSEKEEPING"

// FallbackSecret signs sessions when session.secret is unset. It is
// predictable and rejected in production.
const FallbackSecret = "housekeeping-insecure-development-secret"

// Config captures every tunable of the server.
type Config struct {
	App struct {
		Env string `mapstructure:"env"` // development|production
	} `mapstructure:"app"`

	Server struct {
		Address  string `mapstructure:"address"`
		HTTPPort int    `mapstructure:"http_port"`
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // sqlite|memory
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Session struct {
		Secret   string        `mapstructure:"secret"`
		TTL      time.Duration `mapstructure:"ttl"`
		Denylist string        `mapstructure:"denylist"` // ""|memory|redis
	} `mapstructure:"session"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Logs struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // json|text
	} `mapstructure:"logs"`

	Seed struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"seed"`
}

// IsProduction reports whether app.env is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// UsesFallbackSecret reports whether sessions are signed with FallbackSecret.
func (c Config) UsesFallbackSecret() bool {
	return c.Session.Secret == FallbackSecret
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.HTTPPort)
}

// RegisterFlags adds the flags understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.Bool("seed", false, "insert demo users and rooms when missing")
	fs.Int("port", 0, "HTTP port (overrides server.http_port)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", 3000)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "housekeeping.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.denylist", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "json")
	v.SetDefault("seed.enabled", false)
}

// Load resolves the configuration. fs may be nil; when given, it must have
// been populated by RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := os.Getenv(envPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			configFile = f.Value.String()
		}
		if f := fs.Lookup("seed"); f != nil && f.Changed {
			if err := v.BindPFlag("seed.enabled", f); err != nil {
				return Config{}, fmt.Errorf("config: bind seed flag: %w", err)
			}
		}
		if f := fs.Lookup("port"); f != nil && f.Changed {
			if err := v.BindPFlag("server.http_port", f); err != nil {
				return Config{}, fmt.Errorf("config: bind port flag: %w", err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if strings.TrimSpace(cfg.Session.Secret) == "" {
		cfg.Session.Secret = FallbackSecret
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Session.Denylist = strings.ToLower(strings.TrimSpace(cfg.Session.Denylist))

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(c Config) error {
	var invalid []string

	switch strings.ToLower(c.App.Env) {
	case "development", "production":
	default:
		invalid = append(invalid, "app.env")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		invalid = append(invalid, "server.http_port")
	}
	switch c.Database.Driver {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.Database.DSN) == "" {
			invalid = append(invalid, "database.dsn")
		}
	default:
		invalid = append(invalid, "database.driver")
	}
	if c.Session.TTL <= 0 {
		invalid = append(invalid, "session.ttl")
	}
	switch c.Session.Denylist {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			invalid = append(invalid, "redis.addr")
		}
	default:
		invalid = append(invalid, "session.denylist")
	}
	switch strings.ToLower(c.Logs.Format) {
	case "json", "text":
	default:
		invalid = append(invalid, "logs.format")
	}
	if c.IsProduction() && c.UsesFallbackSecret() {
		invalid = append(invalid, "session.secret")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("config: invalid values for: %s", strings.Join(invalid, ", "))
	}
	return nil
}
