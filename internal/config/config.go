// Package config loads service settings with viper: defaults, then an
// optional config.yaml, then environment variables (redis.url -> REDIS_URL).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"

	DirectoryPostgres = "postgres"
	DirectorySQLite   = "sqlite"
	DirectoryStatic   = "static"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	RedisURL    string
	DatabaseURL string

	StoreDriver string

	DirectoryDriver     string
	DirectorySQLitePath string
	DirectoryCacheTTL   time.Duration

	JWTSecret string

	NATSURL           string
	NATSStream        string
	NATSSubjectPrefix string

	AsynqConcurrency int
	AsynqQueues      string
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DB_URL is the older name for the directory database
	_ = v.BindEnv("database.url", "DATABASE_URL", "DB_URL")
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("database.url", "")
	v.SetDefault("store.driver", StoreRedis)
	v.SetDefault("directory.driver", DirectoryStatic)
	v.SetDefault("directory.sqlite_path", "homeforpup-users.db")
	v.SetDefault("directory.cache_ttl", 10*time.Minute)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.stream", "MESSAGING_DRIFT")
	v.SetDefault("nats.subject_prefix", "messaging.drift")
	v.SetDefault("asynq.concurrency", 10)
	v.SetDefault("asynq.queues", "messaging=6,default=1")
}

// ReadFile merges config.yaml from the working directory when present.
func ReadFile(v *viper.Viper) (string, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("config: read: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load reads every key and validates the driver choices.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		HTTPAddr:            v.GetString("http.addr"),
		GinMode:             v.GetString("gin.mode"),
		RedisURL:            strings.TrimSpace(v.GetString("redis.url")),
		DatabaseURL:         strings.TrimSpace(v.GetString("database.url")),
		StoreDriver:         strings.ToLower(v.GetString("store.driver")),
		DirectoryDriver:     strings.ToLower(v.GetString("directory.driver")),
		DirectorySQLitePath: v.GetString("directory.sqlite_path"),
		DirectoryCacheTTL:   v.GetDuration("directory.cache_ttl"),
		JWTSecret:           v.GetString("auth.jwt_secret"),
		NATSURL:             strings.TrimSpace(v.GetString("nats.url")),
		NATSStream:          v.GetString("nats.stream"),
		NATSSubjectPrefix:   v.GetString("nats.subject_prefix"),
		AsynqConcurrency:    v.GetInt("asynq.concurrency"),
		AsynqQueues:         v.GetString("asynq.queues"),
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("config: store.driver=redis needs redis.url")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.StoreDriver)
	}

	switch c.DirectoryDriver {
	case DirectoryPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: directory.driver=postgres needs database.url")
		}
	case DirectorySQLite:
		if c.DirectorySQLitePath == "" {
			return errors.New("config: directory.driver=sqlite needs directory.sqlite_path")
		}
	case DirectoryStatic:
	default:
		return fmt.Errorf("config: unknown directory.driver %q", c.DirectoryDriver)
	}

	if c.NATSURL != "" && (c.NATSStream == "" || c.NATSSubjectPrefix == "") {
		return errors.New("config: nats.url needs nats.stream and nats.subject_prefix")
	}
	return nil
}
