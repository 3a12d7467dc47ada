package provider

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/models"
	openai_provider "github.com/Mahesh1735/research-agent-core/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	// Invoke sends the transcript and returns the next assistant message, which may carry tool calls.
	Invoke(ctx context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error)
	// ExtractRequirements derives structured requirements from the transcript.
	ExtractRequirements(ctx context.Context, messages []models.Message) (models.Requirements, error)
}

// Options carries the connection settings shared by every provider.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

var ErrMissingAPIKey = errors.New("llm api key not set")

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(client Client, opts Options) (Provider, error) {
	switch client {
	case OpenAI, "":
		if opts.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return openai_provider.NewOpenAIClient(openai_provider.Config{
			APIKey:      opts.APIKey,
			BaseURL:     opts.BaseURL,
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
			Timeout:     opts.Timeout,
		}, opts.Logger), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
