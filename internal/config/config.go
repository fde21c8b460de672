// Package config handles configuration loading and management for draftgen.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for draftgen.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Debug    bool           `mapstructure:"debug"`
}

// LLMConfig holds generation backend settings.
type LLMConfig struct {
	// Provider is "anthropic", "gemini", or "mock".
	Provider string `mapstructure:"provider"`
	// Model is the provider-specific model name.
	Model string `mapstructure:"model"`
	// APIKey is the Anthropic API key.
	APIKey string `mapstructure:"api_key"`
	// GeminiAPIKey is the Google API key.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	// MaxTokens caps response length per completion.
	MaxTokens int `mapstructure:"max_tokens"`
	// UseAWSBedrock routes Anthropic requests through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// DefaultsConfig holds the default document settings. These are the
// lowest-priority source when merging constraints: session-remembered
// and turn-extracted values override them.
type DefaultsConfig struct {
	// Currency is the display currency for rates and budgets.
	Currency string `mapstructure:"currency"`
	// Rates maps role names to default hourly rates.
	Rates map[string]float64 `mapstructure:"rates"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, GOOGLE_API_KEY, LLM_*)
// 2. Project config (.draftgen.yaml in current directory or parent)
// 3. User config (~/.config/draftgen/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := FindProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("llm.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.gemini_api_key", "GOOGLE_API_KEY")
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("debug", "DRAFTGEN_DEBUG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)
	cfg.LLM.GeminiAPIKey = os.ExpandEnv(cfg.LLM.GeminiAPIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.APIKey = os.ExpandEnv(cfg.LLM.APIKey)
	cfg.LLM.GeminiAPIKey = os.ExpandEnv(cfg.LLM.GeminiAPIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.gemini_api_key", cfg.LLM.GeminiAPIKey)
	v.Set("llm.max_tokens", cfg.LLM.MaxTokens)
	v.Set("llm.use_aws_bedrock", cfg.LLM.UseAWSBedrock)
	v.Set("llm.aws_region", cfg.LLM.AWSRegion)
	v.Set("llm.aws_profile", cfg.LLM.AWSProfile)
	v.Set("defaults.currency", cfg.Defaults.Currency)
	v.Set("defaults.rates", cfg.Defaults.Rates)
	v.Set("debug", cfg.Debug)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.use_aws_bedrock", false)

	v.SetDefault("defaults.currency", "USD")
	v.SetDefault("defaults.rates", DefaultRates())

	v.SetDefault("debug", false)
}

// DefaultRates returns the built-in default hourly rates per role.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"senior_engineer":    70,
		"mid_level_engineer": 50,
		"junior_engineer":    30,
		"ui_ux_designer":     45,
		"devops_engineer":    60,
		"ai_engineer":        65,
		"project_manager":    55,
	}
}

// getUserConfigDir returns the XDG config directory for draftgen.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "draftgen")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "draftgen")
	}
	return filepath.Join(home, ".config", "draftgen")
}

// FindProjectConfig searches for .draftgen.yaml in the current
// directory and parents.
func FindProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".draftgen.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "anthropic",
			MaxTokens: 4096,
		},
		Defaults: DefaultsConfig{
			Currency: "USD",
			Rates:    DefaultRates(),
		},
	}
}
