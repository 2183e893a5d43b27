// Package config loads qrforge settings from defaults, an optional
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName = "qrforge"
	configType = "toml"
	envPrefix  = "QRFORGE"
)

type Config struct {
	Server  ServerConfig  `toml:"server" mapstructure:"server"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	Encoder EncoderConfig `toml:"encoder" mapstructure:"encoder"`
	Blob    BlobConfig    `toml:"blob" mapstructure:"blob"`
	Redis   RedisConfig   `toml:"redis" mapstructure:"redis"`
	Session SessionConfig `toml:"session" mapstructure:"session"`
}

type ServerConfig struct {
	Addr string `toml:"addr" mapstructure:"addr"`
}

type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

type EncoderConfig struct {
	Engine string `toml:"engine" mapstructure:"engine"`
}

type BlobConfig struct {
	Store string        `toml:"store" mapstructure:"store"`
	TTL   time.Duration `toml:"ttl" mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr" mapstructure:"addr"`
	Password string `toml:"password" mapstructure:"password"`
	DB       int    `toml:"db" mapstructure:"db"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `toml:"idle_timeout" mapstructure:"idle_timeout"`
}

var envReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("encoder.engine", "yeqown")
	v.SetDefault("blob.store", "memory")
	v.SetDefault("blob.ttl", 5*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.idle_timeout", 30*time.Minute)
}

// Load reads configuration into a Config. When file is empty the
// working directory and $HOME/.config/qrforge are searched for
// qrforge.toml; a missing file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/qrforge")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// PORT wins over server.addr so the binary runs unchanged on PaaS hosts.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Blob.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("blob.store must be memory or redis, got %q", c.Blob.Store)
	}
	switch c.Encoder.Engine {
	case "yeqown", "skip2":
	default:
		return fmt.Errorf("encoder.engine must be yeqown or skip2, got %q", c.Encoder.Engine)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive")
	}
	return nil
}

// TOML renders the effective configuration with secrets masked.
func (c Config) TOML() (string, error) {
	if c.Redis.Password != "" {
		c.Redis.Password = "********"
	}
	out, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(out), nil
}
