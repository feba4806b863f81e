// Package config holds all leadbrain configuration.
// Configuration is loaded from a YAML file and merged over built-in
// defaults; a small set of environment variables override the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config holds all leadbrain configuration.
type Config struct {
	// LLM configuration for message generation
	LLM LLMConfig `yaml:"llm"`

	// Quality gate configuration
	Quality QualityConfig `yaml:"quality"`

	// Memory/context store configuration
	Memory MemoryConfig `yaml:"memory"`

	// Execution settings
	Execution ExecutionConfig `yaml:"execution"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the text-generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai, template
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// QualityConfig configures the quality gate and retry bound.
type QualityConfig struct {
	PassThreshold float64 `yaml:"pass_threshold"` // Aggregate score needed for approval
	MaxRetries    int     `yaml:"max_retries"`    // Regeneration cycles after the first attempt
	MinWords      int     `yaml:"min_words"`      // Acceptable body word-count band
	MaxWords      int     `yaml:"max_words"`
}

// MemoryConfig configures the memory/context store.
type MemoryConfig struct {
	DatabasePath string `yaml:"database_path"`
	CacheTTL     string `yaml:"cache_ttl"` // Read-through cache TTL
	Timeout      string `yaml:"timeout"`   // Per read/write bound
}

// ExecutionConfig configures the batch runner.
type ExecutionConfig struct {
	Concurrency int `yaml:"concurrency"` // Concurrent lead runs
}

// LoggingConfig configures categorized logging.
type LoggingConfig struct {
	Dir        string          `yaml:"dir"`
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: "template",
			Model:    "gemini-2.0-flash",
			Timeout:  "60s",
		},
		Quality: QualityConfig{
			PassThreshold: 80,
			MaxRetries:    2,
			MinWords:      30,
			MaxWords:      120,
		},
		Memory: MemoryConfig{
			DatabasePath: ".brain/memory.db",
			CacheTTL:     "5m",
			Timeout:      "5s",
		},
		Execution: ExecutionConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Dir: ".brain/logs",
		},
	}
}

// Load reads the YAML config at path, merges it over defaults and applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config: %w", err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config: %w", err)
			}
			if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
				return cfg, fmt.Errorf("failed to merge config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides maps LEADBRAIN_* environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEADBRAIN_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LEADBRAIN_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LEADBRAIN_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LEADBRAIN_DB_PATH"); v != "" {
		cfg.Memory.DatabasePath = v
	}
	if v := os.Getenv("LEADBRAIN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.DebugMode = b
		}
	}
}

// LLMTimeout returns the parsed LLM call bound, defaulting to 60s.
func (c Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

// MemoryTimeout returns the parsed memory-store call bound, defaulting to 5s.
func (c Config) MemoryTimeout() time.Duration {
	return parseDuration(c.Memory.Timeout, 5*time.Second)
}

// MemoryCacheTTL returns the parsed read-cache TTL, defaulting to 5m.
func (c Config) MemoryCacheTTL() time.Duration {
	return parseDuration(c.Memory.CacheTTL, 5*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
