package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	envPrefix = "IMAGES"
)

type Config struct {
	Debug  bool         `mapstructure:"debug"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            bool          `mapstructure:"cors"`
}

type StoreConfig struct {
	Backend    string      `mapstructure:"backend"`
	SQLitePath string      `mapstructure:"sqlite_path"`
	Gorm       GormConfig  `mapstructure:"gorm"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type GormConfig struct {
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// New returns a viper instance with defaults and environment bindings but no file loaded
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.cors", false)
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.sqlite_path", "./database.db")
	v.SetDefault("store.gorm.dialect", "sqlite")
	v.SetDefault("store.gorm.dsn", "./database.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", "images:")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// older deployments set the database location through SQLITE_DB_PATH
	_ = v.BindEnv("store.sqlite_path", envPrefix+"_STORE_SQLITE_PATH", "SQLITE_DB_PATH")

	return v
}

// Load reads the optional config file into v and decodes the result
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendGorm, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}
