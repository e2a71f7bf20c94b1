package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "mmdc", cfg.MmdcPath)
	assert.Equal(t, "30s", cfg.RenderTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxOutputBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MERMAID_MCP_MMDC_PATH", "/opt/mermaid/mmdc")
	t.Setenv("MERMAID_MCP_RENDER_TIMEOUT", "90s")
	t.Setenv("MERMAID_MCP_MAX_OUTPUT_BYTES", "1048576")
	t.Setenv("MERMAID_MCP_LOG_LEVEL", "debug")
	t.Setenv("MERMAID_MCP_LISTEN_ADDR", ":9000")

	cfg := loadConfig()
	assert.Equal(t, "/opt/mermaid/mmdc", cfg.MmdcPath)
	assert.Equal(t, "90s", cfg.RenderTimeout)
	assert.Equal(t, int64(1048576), cfg.MaxOutputBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 90*time.Second, cfg.renderTimeout())
}

func TestLoadConfigBadEnvValues(t *testing.T) {
	t.Setenv("MERMAID_MCP_MAX_OUTPUT_BYTES", "not-a-number")

	cfg := loadConfig()
	assert.Equal(t, int64(10*1024*1024), cfg.MaxOutputBytes)
}

func TestRenderTimeoutFallback(t *testing.T) {
	cfg := defaultConfig()
	cfg.RenderTimeout = "bogus"
	assert.Equal(t, 30*time.Second, cfg.renderTimeout())

	cfg.RenderTimeout = "-5s"
	assert.Equal(t, 30*time.Second, cfg.renderTimeout())

	cfg.RenderTimeout = "2m"
	assert.Equal(t, 2*time.Minute, cfg.renderTimeout())
}
