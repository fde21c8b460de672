package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when neither the environment nor the config
// file carries a key for the requested provider.
var ErrNoAPIKey = errors.New("no API key configured")

// KeySource records where a provider credential was resolved from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// providerKey describes how one provider's credential is looked up and
// what a plausible key looks like.
type providerKey struct {
	envVar  string
	fromCfg func(*Config) string
	prefix  string
}

var providerKeys = map[string]providerKey{
	"anthropic": {
		envVar:  "ANTHROPIC_API_KEY",
		fromCfg: func(c *Config) string { return c.LLM.APIKey },
		prefix:  "sk-ant-",
	},
	"gemini": {
		envVar:  "GEMINI_API_KEY",
		fromCfg: func(c *Config) string { return c.LLM.GeminiAPIKey },
		prefix:  "AIza",
	},
}

// ResolveAPIKey returns the credential for a provider, preferring the
// environment over the config file. Unresolved ${VAR} references left
// in the config value count as unset.
func ResolveAPIKey(cfg *Config, provider string) (string, KeySource, error) {
	pk, ok := providerKeys[strings.ToLower(provider)]
	if !ok {
		return "", KeySourceNone, fmt.Errorf("%w: unknown provider %q", ErrNoAPIKey, provider)
	}

	if key := os.Getenv(pk.envVar); key != "" {
		return key, KeySourceEnv, nil
	}

	if cfg != nil {
		key := os.ExpandEnv(pk.fromCfg(cfg))
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, KeySourceConfig, nil
		}
	}

	return "", KeySourceNone, fmt.Errorf("%w: set %s", ErrNoAPIKey, pk.envVar)
}

// ValidateAPIKey checks that a key is shaped like the provider's keys.
// It does not call the provider.
func ValidateAPIKey(provider, key string) error {
	if key == "" {
		return ErrNoAPIKey
	}
	pk, ok := providerKeys[strings.ToLower(provider)]
	if !ok {
		return nil
	}
	if !strings.HasPrefix(key, pk.prefix) {
		return fmt.Errorf("invalid %s key: expected %q prefix", provider, pk.prefix)
	}
	if len(key) < 20 {
		return fmt.Errorf("invalid %s key: too short", provider)
	}
	return nil
}

// MaskAPIKey keeps enough of a key to recognize it without exposing it.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 12 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
