package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ProjectID      string
	Region         string
	LogLevel       string
	KMSKeyName     string
	WebhookTimeout time.Duration
	OutboxInterval time.Duration
	MaxAttempts    int
}

func New() *Config {
	return &Config{
		ProjectID:      os.Getenv("PROJECTID"),
		Region:         os.Getenv("REGION"),
		LogLevel:       os.Getenv("LOGLEVEL"),
		KMSKeyName:     os.Getenv("KMSKEYNAME"),
		WebhookTimeout: getDuration("WEBHOOKTIMEOUT", 10*time.Second),
		OutboxInterval: getDuration("OUTBOXINTERVAL", 15*time.Second),
		MaxAttempts:    getInt("WEBHOOKMAXATTEMPTS", 5),
	}
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
