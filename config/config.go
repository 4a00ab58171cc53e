// Package config provides hierarchical configuration loading for relay.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds runtime configuration for the agent loop and the tool
// service it talks to.
type Config struct {
	LLM     LLM     `yaml:"llm"`
	Agent   Agent   `yaml:"agent"`
	Tools   Tools   `yaml:"tools"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// LLM holds model provider configuration.
type LLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
	Streaming   bool    `yaml:"streaming"`
}

// Agent holds conversation loop configuration.
type Agent struct {
	MaxIterations      int    `yaml:"max_iterations"`
	ToolResultMaxChars int    `yaml:"tool_result_max_chars"`
	SystemPrompt       string `yaml:"system_prompt"`
}

// Tools holds tool service client configuration.
type Tools struct {
	URL                string        `yaml:"url"`
	Timeout            time.Duration `yaml:"timeout"`
	BreakerMaxFailures int           `yaml:"breaker_max_failures"`
	BreakerCooldown    time.Duration `yaml:"breaker_cooldown"`
}

// Server holds tool service HTTP configuration.
type Server struct {
	Port string `yaml:"port"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		LLM: LLM{
			Provider:   "openai",
			Model:      "gpt-4o",
			MaxTokens:  4096,
			MaxRetries: 2,
		},
		Agent: Agent{
			MaxIterations:      10,
			ToolResultMaxChars: 8000,
		},
		Tools: Tools{
			URL:                "http://localhost:8000",
			Timeout:            10 * time.Second,
			BreakerMaxFailures: 5,
			BreakerCooldown:    30 * time.Second,
		},
		Server: Server{
			Port: "8000",
		},
		Logging: Logging{
			Level:   "info",
			Service: "relay",
		},
	}
}
