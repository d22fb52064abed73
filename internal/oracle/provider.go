package oracle

import (
	"context"
	"time"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Task identifies which inference the pipeline is asking for. The task
// is part of the cache key so different prompts never collide.
type Task string

const (
	TaskNER      Task = "ner"
	TaskRelation Task = "relation"
	TaskQuality  Task = "quality"
)

// Provider defines the interface for inference backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one completion request
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one completion
type Request struct {
	// Task tags the request for caching and tracing
	Task Task

	// Prompt is the fully rendered prompt text
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the provider's output
type Response struct {
	// Content is the raw completion text
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     120 * time.Second,
		MaxTokens:   4000,
		Temperature: 0.3,
	}
}

// ConfigFromModel converts model.OracleConfig to oracle.Config
func ConfigFromModel(mc model.OracleConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
	}
}
