package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// FactoryConfig selects and configures a generation backend.
type FactoryConfig struct {
	// Provider is "anthropic", "gemini", or "mock".
	Provider string
	// Model is the provider-specific model name.
	Model string
	// APIKey is the Anthropic API key.
	APIKey string
	// GeminiAPIKey is the Google API key.
	GeminiAPIKey string
	// UseAWSBedrock routes Anthropic requests through Bedrock.
	UseAWSBedrock bool
	// AWSRegion is the Bedrock region.
	AWSRegion string
	// AWSProfile is the AWS profile name.
	AWSProfile string
}

// New creates a client for the configured provider.
func New(ctx context.Context, cfg FactoryConfig) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "anthropic":
		return NewAnthropic(AnthropicConfig{
			Model:         anthropic.Model(cfg.Model),
			APIKey:        cfg.APIKey,
			UseAWSBedrock: cfg.UseAWSBedrock,
			AWSRegion:     cfg.AWSRegion,
			AWSProfile:    cfg.AWSProfile,
		})
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "mock":
		return NewMock(""), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewFromEnv builds a client from environment variables, auto-detecting
// the provider by API key presence. Returns a mock client when nothing
// is configured.
func NewFromEnv(ctx context.Context) Client {
	prov := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))

	switch prov {
	case "anthropic":
		if c, err := NewAnthropic(AnthropicConfig{Model: anthropic.Model(model)}); err == nil {
			return c
		}
	case "gemini":
		if c, err := NewGemini(ctx, os.Getenv("GOOGLE_API_KEY"), model); err == nil {
			return c
		}
	}

	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		if c, err := NewAnthropic(AnthropicConfig{Model: anthropic.Model(model)}); err == nil {
			return c
		}
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		if c, err := NewGemini(ctx, key, model); err == nil {
			return c
		}
	}

	return NewMock("")
}
