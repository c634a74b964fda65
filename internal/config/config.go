package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RocketMQ   RocketMQConfig   `mapstructure:"rocketmq"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Render     RenderConfig     `mapstructure:"render"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig represents MySQL configuration
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig represents resolution cache configuration. The TTL is the
// staleness bound for link records updated out of band.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RocketMQConfig represents RocketMQ configuration
type RocketMQConfig struct {
	NameServer string `mapstructure:"nameserver"`
	Topic      string `mapstructure:"topic"`
	Group      string `mapstructure:"group"`
}

// SchedulerConfig represents evaluation scheduler configuration
type SchedulerConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// RenderConfig represents render collaborator configuration
type RenderConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClassifierConfig represents classifier collaborator configuration
type ClassifierConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// Global config instance
var cfg *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables
	cfg.Database.Redis.Password = expandEnv(cfg.Database.Redis.Password)
	cfg.Database.MySQL.DSN = expandEnv(cfg.Database.MySQL.DSN)
	cfg.Classifier.APIKey = expandEnv(cfg.Classifier.APIKey)

	return cfg, nil
}

// Get returns the global config instance
func Get() *Config {
	return cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("cache.ttl", 42*time.Hour)
	v.SetDefault("rocketmq.topic", "link_click")
	v.SetDefault("rocketmq.group", "pelican_consumer_group")
	v.SetDefault("scheduler.cooldown", 6*time.Hour)
	v.SetDefault("render.timeout", 20*time.Second)
	v.SetDefault("classifier.model", "gpt-4o-mini")
}

// expandEnv expands environment variables in the string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envKey := s[2 : len(s)-1]
		return viper.GetString(envKey)
	}
	return s
}
