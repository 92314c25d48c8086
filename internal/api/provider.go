package api

import "context"

// Provider defines the interface for text-generation backends used to parse
// natural-language reminder input. Implementations include the DeepSeek API
// and local Ollama models. Output is untrusted: callers must validate it and
// degrade gracefully when a call fails or returns garbage.
type Provider interface {
	// Generate sends a single prompt and returns the raw model output.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "deepseek", "ollama").
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}
