package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all mermaid-validator configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	MmdcPath       string `json:"mmdc_path"`
	RenderTimeout  string `json:"render_timeout"`
	MaxOutputBytes int64  `json:"max_output_bytes"`
	LogLevel       string `json:"log_level"`
	ListenAddr     string `json:"listen_addr"`
}

func defaultConfig() Config {
	return Config{
		MmdcPath:       "mmdc",
		RenderTimeout:  "30s",
		MaxOutputBytes: 10 * 1024 * 1024,
		LogLevel:       "info",
		ListenAddr:     ":8080",
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mermaid-validator"
	}
	return filepath.Join(home, ".mermaid-validator")
}

func settingsPath() string {
	return filepath.Join(configDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("MERMAID_MCP_MMDC_PATH"); v != "" {
		cfg.MmdcPath = v
	}
	if v := os.Getenv("MERMAID_MCP_RENDER_TIMEOUT"); v != "" {
		cfg.RenderTimeout = v
	}
	if v := os.Getenv("MERMAID_MCP_MAX_OUTPUT_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxOutputBytes = n
		}
	}
	if v := os.Getenv("MERMAID_MCP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MERMAID_MCP_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	return cfg
}

// renderTimeout parses the configured timeout, falling back to the default
// when the value is missing or malformed.
func (c Config) renderTimeout() time.Duration {
	if d, err := time.ParseDuration(c.RenderTimeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}
