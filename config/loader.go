package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "relay.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.LLM.Provider, "RELAY_LLM_PROVIDER")
	setString(&cfg.LLM.Model, "RELAY_LLM_MODEL")
	setString(&cfg.LLM.APIKey, "RELAY_LLM_API_KEY")
	setInt(&cfg.LLM.MaxTokens, "RELAY_LLM_MAX_TOKENS")
	setFloat64(&cfg.LLM.Temperature, "RELAY_LLM_TEMPERATURE")
	setInt(&cfg.LLM.MaxRetries, "RELAY_LLM_MAX_RETRIES")
	setBool(&cfg.LLM.Streaming, "RELAY_LLM_STREAMING")

	setInt(&cfg.Agent.MaxIterations, "RELAY_MAX_ITERATIONS")
	setInt(&cfg.Agent.ToolResultMaxChars, "RELAY_TOOL_RESULT_MAX_CHARS")
	setString(&cfg.Agent.SystemPrompt, "RELAY_SYSTEM_PROMPT")

	setString(&cfg.Tools.URL, "RELAY_TOOLS_URL")
	setDuration(&cfg.Tools.Timeout, "RELAY_TOOLS_TIMEOUT")
	setInt(&cfg.Tools.BreakerMaxFailures, "RELAY_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Tools.BreakerCooldown, "RELAY_BREAKER_COOLDOWN")

	setString(&cfg.Server.Port, "RELAY_SERVER_PORT")

	setString(&cfg.Logging.Level, "RELAY_LOG_LEVEL")
	setString(&cfg.Logging.Service, "RELAY_LOG_SERVICE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.LLM.Provider == "" {
		return errors.New("llm.provider is required")
	}
	if cfg.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if cfg.Agent.MaxIterations < 1 {
		return errors.New("agent.max_iterations must be >= 1")
	}
	if cfg.Agent.ToolResultMaxChars < 1 {
		return errors.New("agent.tool_result_max_chars must be >= 1")
	}
	if cfg.Tools.URL == "" {
		return errors.New("tools.url is required")
	}
	if cfg.Tools.BreakerMaxFailures < 1 {
		return errors.New("tools.breaker_max_failures must be >= 1")
	}
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
