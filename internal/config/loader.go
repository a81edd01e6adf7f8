// Package config loads chatd settings from a yaml, json or toml file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"chatd/pkg/types"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	// Models are static catalog entries listed before scanned files.
	Models []types.Model `json:"models" yaml:"models" toml:"models"`

	Backend        string `json:"backend" yaml:"backend" toml:"backend"`
	LlamaCtx       int    `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads   int    `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	LlamaGPULayers int    `json:"llama_gpu_layers" yaml:"llama_gpu_layers" toml:"llama_gpu_layers"`
	GenAIAPIKey    string `json:"genai_api_key" yaml:"genai_api_key" toml:"genai_api_key"`

	LoadTimeoutSeconds int  `json:"load_timeout_seconds" yaml:"load_timeout_seconds" toml:"load_timeout_seconds"`
	SendTimeoutSeconds int  `json:"send_timeout_seconds" yaml:"send_timeout_seconds" toml:"send_timeout_seconds"`
	DropEmptyReplies   bool `json:"drop_empty_replies" yaml:"drop_empty_replies" toml:"drop_empty_replies"`

	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled  bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:               ":8080",
		LogLevel:           "info",
		ModelsDir:          "~/models/llm",
		Backend:            "llama",
		LlamaCtx:           2048,
		LoadTimeoutSeconds: 600,
		SendTimeoutSeconds: 300,
		MaxBodyBytes:       1 << 20,
	}
}

// WithDefaults fills every unspecified field from Default.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.ModelsDir == "" {
		c.ModelsDir = d.ModelsDir
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.LlamaCtx <= 0 {
		c.LlamaCtx = d.LlamaCtx
	}
	if c.LoadTimeoutSeconds <= 0 {
		c.LoadTimeoutSeconds = d.LoadTimeoutSeconds
	}
	if c.SendTimeoutSeconds <= 0 {
		c.SendTimeoutSeconds = d.SendTimeoutSeconds
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}

func (c Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}

func (c Config) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
