// Package llm provides the generation backends used by proposal tasks.
// Tasks depend only on the Client interface; concrete providers cover
// the Anthropic API (directly or via AWS Bedrock) and Gemini, with a
// scripted mock for tests.
package llm

import "context"

// Request is a single completion request.
type Request struct {
	// System is the system prompt, if any.
	System string
	// Prompt is the user prompt.
	Prompt string
	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
	// Temperature controls sampling. Zero means provider default.
	Temperature float64
}

// Client is the minimal interface a generation backend must satisfy.
type Client interface {
	// Complete returns the model's text response for the request.
	Complete(ctx context.Context, req Request) (string, error)
}
