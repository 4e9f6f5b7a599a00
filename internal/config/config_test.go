package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGeminiKey, "")
	t.Setenv(EnvAPIKey, "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.LLM.Provider, ProviderGemini)
	}
	if cfg.LLM.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.LLM.Model, DefaultModel)
	}
	if cfg.Cache.Size != DefaultCacheSize {
		t.Errorf("Cache.Size = %d, want %d", cfg.Cache.Size, DefaultCacheSize)
	}

	var missing *ConfigMissingError
	if err := cfg.RequireAPIKey(); !errors.As(err, &missing) {
		t.Fatalf("RequireAPIKey() = %v, want *ConfigMissingError", err)
	}
	if missing.Key != EnvGeminiKey {
		t.Errorf("missing key = %q, want %q", missing.Key, EnvGeminiKey)
	}
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
llm:
  provider: OpenAI
  model: gpt-4o-mini
  api_key: from-file
  base_url: https://openrouter.ai/api/v1
  timeout_seconds: 30
log:
  level: debug
cache:
  size: 4
markers:
  total_assets: ["SUM OF ASSETS"]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.LLM.Provider != ProviderOpenAI || cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.TimeoutSeconds != 30 {
		t.Errorf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.Cache.Size != 4 || cfg.Log.Level != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Markers.TotalAssets) != 1 || cfg.Markers.TotalAssets[0] != "SUM OF ASSETS" {
		t.Errorf("markers = %+v", cfg.Markers)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() = %v, want nil", err)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGeminiKey, "from-env")

	cfg, err := LoadConfig(writeConfig(t, "llm:\n  api_key: from-file\n"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.LLM.Key != "from-env" {
		t.Errorf("Key = %q, want from-env", cfg.LLM.Key)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(writeConfig(t, "llm: [unclosed")); err == nil {
		t.Error("LoadConfig() succeeded on invalid yaml")
	}
}

func TestRequireAPIKey_Ollama(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{Provider: ProviderOllama}}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() = %v, want nil for ollama", err)
	}

	cfg = &Config{LLM: LLMConfig{Provider: ProviderOpenAI}}
	var missing *ConfigMissingError
	if err := cfg.RequireAPIKey(); !errors.As(err, &missing) || missing.Key != EnvAPIKey {
		t.Errorf("RequireAPIKey() = %v, want missing %s", err, EnvAPIKey)
	}
}
