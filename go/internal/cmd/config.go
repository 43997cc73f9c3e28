package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agorahq/agora/go/internal/gateway"
)

// Config is the optional YAML config file. Everything here has a
// default; the file only overrides.
type Config struct {
	Gateway struct {
		PingIntervalSeconds int   `yaml:"ping_interval_seconds"`
		ReadBufferSize      int   `yaml:"read_buffer_size"`
		WriteBufferSize     int   `yaml:"write_buffer_size"`
		MaxMessageSize      int64 `yaml:"max_message_size"`
	} `yaml:"gateway"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads the YAML config at path. A missing file is fine;
// defaults apply.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// gatewayConfig merges the file's gateway settings over the defaults.
// NATS stays off unless a URL is configured, in the file or via
// NATS_URL.
func gatewayConfig(config *Config) gateway.Config {
	gc := gateway.DefaultConfig()
	if config.Gateway.PingIntervalSeconds > 0 {
		gc.ConnectionConfig.PingInterval = time.Duration(config.Gateway.PingIntervalSeconds) * time.Second
	}
	if config.Gateway.ReadBufferSize > 0 {
		gc.ConnectionConfig.ReadBufferSize = config.Gateway.ReadBufferSize
	}
	if config.Gateway.WriteBufferSize > 0 {
		gc.ConnectionConfig.WriteBufferSize = config.Gateway.WriteBufferSize
	}
	if config.Gateway.MaxMessageSize > 0 {
		gc.ConnectionConfig.MaxMessageSize = config.Gateway.MaxMessageSize
	}

	gc.NATSURL = getEnv("NATS_URL", config.NATS.URL)
	if config.NATS.SubjectPrefix != "" {
		gc.SubjectPrefix = config.NATS.SubjectPrefix
	}
	return gc
}
