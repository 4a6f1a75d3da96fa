package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// IPMA upstream configuration.
	IPMABaseURL string
	IPMATimeout time.Duration
	Preload     bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Snapshot export.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	ipmaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("IPMA_TIMEOUT", "10s"))
	if err != nil || ipmaTimeout <= 0 {
		return nil, errors.New("invalid IPMA_TIMEOUT")
	}

	preload, err := parseBool("IPMA_PRELOAD", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		IPMABaseURL:     sharedcfg.EnvOrDefault("IPMA_BASE_URL", "https://api.ipma.pt/open-data"),
		IPMATimeout:     ipmaTimeout,
		Preload:         preload,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "ipma-weather"),
	}

	if u, err := url.Parse(cfg.IPMABaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid IPMA_BASE_URL")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return b, nil
}
