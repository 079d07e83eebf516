package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	View    ViewConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr       string
	ProfileTTL time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
	Enabled       bool
}

type ViewConfig struct {
	DefaultDays int
	Timezone    string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: getEnv("SHARC_API_URL", "http://localhost:3000"),
			Timeout: time.Duration(getEnvInt("SHARC_API_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			ProfileTTL: time.Duration(getEnvInt("PROFILE_CACHE_TTL_MINUTES", 5)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ActivityTopic: getEnv("KAFKA_TOPIC_ACTIVITY", "rsvp-activity"),
			Enabled:       getEnvBool("KAFKA_ENABLED", false),
		},
		View: ViewConfig{
			DefaultDays: getEnvInt("VIEW_DEFAULT_DAYS", 7),
			Timezone:    getEnv("VIEW_TIMEZONE", "Local"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
