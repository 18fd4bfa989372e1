package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines relay configuration.
type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Cache    CacheConfig    `yaml:"cache"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

// EndpointConfig describes the remote spreadsheet-backed endpoint.
type EndpointConfig struct {
	URL              string   `yaml:"url"`
	AckWindowSeconds int      `yaml:"ack_window_seconds"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
}

// AckWindow returns the acknowledgment wait window.
func (c EndpointConfig) AckWindow() time.Duration {
	return time.Duration(c.AckWindowSeconds) * time.Second
}

// BridgeConfig describes the local acknowledgment listener.
type BridgeConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig describes counter freshness and reconciliation pacing.
type CacheConfig struct {
	TimeoutSeconds      int `yaml:"timeout_seconds"`
	SyncIntervalSeconds int `yaml:"sync_interval_seconds"`
}

// Timeout returns the cache freshness TTL.
func (c CacheConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SyncInterval returns the reconciliation interval.
func (c CacheConfig) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Endpoint: EndpointConfig{
			AckWindowSeconds: 2,
			AllowedOrigins: []string{
				"https://script.google.com",
				"https://script.googleusercontent.com",
			},
		},
		Bridge: BridgeConfig{
			Host: "127.0.0.1",
			Port: 8077,
		},
		Cache: CacheConfig{
			TimeoutSeconds:      300,
			SyncIntervalSeconds: 120,
		},
		Store: StoreConfig{
			Path: "relay.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("CINQUE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("CINQUE_ENDPOINT_URL"); url != "" {
		cfg.Endpoint.URL = url
	}
	if origins := os.Getenv("CINQUE_ALLOWED_ORIGINS"); origins != "" {
		cfg.Endpoint.AllowedOrigins = splitOrigins(origins)
	}
	if host := os.Getenv("CINQUE_BRIDGE_HOST"); host != "" {
		cfg.Bridge.Host = host
	}
	if portStr := os.Getenv("CINQUE_BRIDGE_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CINQUE_BRIDGE_PORT: %w", err)
		}
		cfg.Bridge.Port = port
	}
	if storePath := os.Getenv("CINQUE_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if level := os.Getenv("CINQUE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Endpoint.URL == "" {
		return Config{}, fmt.Errorf("endpoint url not configured")
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
