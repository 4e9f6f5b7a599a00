package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"finratio/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	DefaultModel     = "gemini-2.5-flash"
	DefaultCacheSize = 32

	EnvGeminiKey = "GEMINI_API_KEY"
	EnvAPIKey    = "FINRATIO_API_KEY"
)

type Config struct {
	LLM     LLMConfig      `yaml:"llm"`
	Log     LogConfig      `yaml:"log"`
	Cache   CacheConfig    `yaml:"cache"`
	Markers models.Markers `yaml:"markers"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	Key            string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type CacheConfig struct {
	Size int `yaml:"size"`
}

// ConfigMissingError reports a required setting that was not provided.
type ConfigMissingError struct {
	Key string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("missing required setting %s: add %s to your environment or .env file, or set llm.api_key in the config file", e.Key, e.Key)
}

// LoadConfig reads the YAML file at path, then the .env file of the working
// directory and the environment. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// .env is optional, values already in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	for _, k := range []string{EnvAPIKey, EnvGeminiKey} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			c.LLM.Key = v
			return
		}
	}
}

func (c *Config) applyDefaults() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" && c.LLM.Provider == ProviderGemini {
		c.LLM.Model = DefaultModel
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = DefaultCacheSize
	}
}

// RequireAPIKey fails when the configured provider needs a key and none is set.
func (c *Config) RequireAPIKey() error {
	if c.LLM.Provider == ProviderOllama {
		return nil
	}
	if strings.TrimSpace(c.LLM.Key) != "" {
		return nil
	}
	if c.LLM.Provider == ProviderGemini {
		return &ConfigMissingError{Key: EnvGeminiKey}
	}
	return &ConfigMissingError{Key: EnvAPIKey}
}
