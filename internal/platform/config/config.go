package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	fgstrings "fairgate/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server   Server         `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr"`
	// Phase is "serving" for a live process and "build" for offline
	// generation runs that have no storage.
	Phase string `yaml:"phase"`
	// OpsToken guards /metrics when set.
	OpsToken string `yaml:"ops_token"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type AuthConfig struct {
	JWTSigningKey string        `yaml:"jwt_signing_key"`
	Issuer        string        `yaml:"issuer"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
}

// KafkaConfig is optional; no brokers disables the Kafka audit sink.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"audit_topic"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads an optional YAML file, expanding ${VAR} references, then applies
// environment overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	return Load("")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Server.Phase {
	case "serving":
		if c.Database.URL == "" {
			return fmt.Errorf("database url is required in serving phase")
		}
	case "build":
	default:
		return fmt.Errorf("unknown phase %q", c.Server.Phase)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "FAIRGATE_ADDR")
	setString(&cfg.Server.Phase, "FAIRGATE_PHASE")
	setString(&cfg.Server.OpsToken, "FAIRGATE_OPS_TOKEN")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setInt(&cfg.Database.MaxOpenConns, "DATABASE_MAX_OPEN_CONNS")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Auth.JWTSigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.Auth.Issuer, "JWT_ISSUER")
	setString(&cfg.Kafka.AuditTopic, "KAFKA_AUDIT_TOPIC")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = fgstrings.SplitList(brokers)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Phase == "" {
		cfg.Server.Phase = "serving"
	}
	if cfg.Auth.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "fairgate"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Kafka.AuditTopic == "" {
		cfg.Kafka.AuditTopic = "fairgate.audit"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
