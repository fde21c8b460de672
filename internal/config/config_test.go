package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("expected default provider 'anthropic', got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("expected default max_tokens 4096, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Defaults.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", cfg.Defaults.Currency)
	}
	if cfg.Defaults.Rates["senior_engineer"] != 70 {
		t.Errorf("expected senior_engineer default rate 70, got %v", cfg.Defaults.Rates["senior_engineer"])
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
llm:
  provider: gemini
  model: gemini-1.5-pro
defaults:
  currency: EUR
  rates:
    senior_engineer: 95
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.LLM.Provider != "gemini" || cfg.LLM.Model != "gemini-1.5-pro" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Defaults.Currency != "EUR" {
		t.Errorf("currency = %q", cfg.Defaults.Currency)
	}
	if cfg.Defaults.Rates["senior_engineer"] != 95 {
		t.Errorf("rates = %v", cfg.Defaults.Rates)
	}
	if !cfg.Debug {
		t.Error("debug not set")
	}
}

func TestLoadFromPath_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DRAFTGEN_KEY", "sk-ant-test123456789012")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "llm:\n  api_key: ${TEST_DRAFTGEN_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.LLM.APIKey != "sk-ant-test123456789012" {
		t.Errorf("api_key = %q", cfg.LLM.APIKey)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
