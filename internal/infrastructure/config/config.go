package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Queue    QueueConfig
	Pipeline PipelineConfig
	Logging  LogConfig
	Server   ServerConfig
}

// QueueConfig holds bounded queue configuration.
type QueueConfig struct {
	Capacity int `envconfig:"QUEUE_CAPACITY" default:"10"`
}

// PipelineConfig holds producer/consumer task configuration.
type PipelineConfig struct {
	Producers        int           `envconfig:"PRODUCERS" default:"2"`
	Consumers        int           `envconfig:"CONSUMERS" default:"2"`
	ItemsPerProducer int           `envconfig:"ITEMS_PER_PRODUCER" default:"50"`
	ProduceDelay     time.Duration `envconfig:"PRODUCE_DELAY" default:"0s"`
	ConsumeDelay     time.Duration `envconfig:"CONSUME_DELAY" default:"0s"`
	PollTimeout      time.Duration `envconfig:"POLL_TIMEOUT" default:"100ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// ServerConfig holds the ops HTTP server configuration.
type ServerConfig struct {
	Port    string `envconfig:"SERVER_PORT" default:"9090"`
	Host    string `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Enabled bool   `envconfig:"SERVER_ENABLED" default:"false"`
}

// Load loads configuration from FLUME_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("flume", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Queue: QueueConfig{Capacity: 10},
		Pipeline: PipelineConfig{
			Producers:        2,
			Consumers:        2,
			ItemsPerProducer: 50,
			PollTimeout:      100 * time.Millisecond,
		},
		Logging: LogConfig{Level: "info"},
		Server: ServerConfig{
			Port: "9090",
			Host: "127.0.0.1",
		},
	}
}

// Addr returns the host:port address of the ops server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
