package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type TelegramConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Token   string   `mapstructure:"token"`
	ChatIDs []string `mapstructure:"chat_ids"`
}

type FeedConfig struct {
	LoginURL string `mapstructure:"login_url"`
	ListURL  string `mapstructure:"list_url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Redirect string `mapstructure:"redirect"`
}

type MonitorConfig struct {
	CheckInterval       time.Duration `mapstructure:"check_interval"`
	SyncInterval        time.Duration `mapstructure:"sync_interval"`
	MaxConcurrentProbes int           `mapstructure:"max_concurrent_probes"`
	LogFile             string        `mapstructure:"log_file"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var errViper viper.ConfigFileNotFoundError
		if errors.As(err, &errViper) {
			slog.Warn("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config, %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed, %w", err)
	}

	slog.Info("configuration loaded successfully")
	return &config, nil
}

func setDefaults() {
	// server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "netwatch")
	viper.SetDefault("database.password", "netwatch")
	viper.SetDefault("database.dbname", "netwatch")
	viper.SetDefault("database.sslmode", "disable")

	// redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.channel", "netwatch:events")

	// telegram defaults
	viper.SetDefault("telegram.enabled", false)

	// monitor defaults
	viper.SetDefault("monitor.check_interval", "5s")
	viper.SetDefault("monitor.sync_interval", "5m")
	viper.SetDefault("monitor.max_concurrent_probes", 16)
	viper.SetDefault("monitor.log_file", "server.log")

	// logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	if cfg.Server.Mode != "debug" && cfg.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode %s", cfg.Server.Mode)
	}

	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}

	if cfg.Database.DBName == "" {
		return errors.New("database name is required")
	}

	if cfg.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if cfg.Monitor.CheckInterval <= 0 {
		return fmt.Errorf("invalid check interval %s", cfg.Monitor.CheckInterval)
	}

	if cfg.Monitor.SyncInterval <= 0 {
		return fmt.Errorf("invalid sync interval %s", cfg.Monitor.SyncInterval)
	}

	if cfg.Monitor.MaxConcurrentProbes < 1 {
		return fmt.Errorf("invalid max concurrent probes %d", cfg.Monitor.MaxConcurrentProbes)
	}

	if cfg.Telegram.Enabled {
		if cfg.Telegram.Token == "" {
			return errors.New("telegram token is required when telegram is enabled")
		}
		if len(cfg.Telegram.ChatIDs) == 0 {
			return errors.New("at least one telegram chat id is required when telegram is enabled")
		}
	}

	return nil
}

// GetDSN builds the PostgreSQL connection string.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetRedisOptions builds the client options for the shared Redis.
func (r *RedisConfig) GetRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:            r.Addr,
		Password:        r.Password,
		DB:              r.DB,
		DisableIdentity: true,
	}
}
