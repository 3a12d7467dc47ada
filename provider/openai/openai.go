package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/internal/helpers"
	"github.com/Mahesh1735/research-agent-core/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"

	// MaxKeywords bounds the categorization keywords kept from an extraction.
	MaxKeywords = 3
)

// Config holds the chat completion settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// client implements the provider interface using OpenAI's chat completions API
type client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *zap.Logger
}

type message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type tool struct {
	Type     string         `json:"type"`
	Function toolDefinition `json:"function"`
}

type toolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type request struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Tools          []tool          `json:"tools,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type response struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// APIError is returned for non-200 responses.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: API returned status %d: %s", e.Status, e.Body)
}

var errNoChoices = errors.New("openai: no choices in response")

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg Config, logger *zap.Logger) *client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

// Invoke sends the transcript with the given tools bound and returns the assistant reply.
func (c *client) Invoke(ctx context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error) {
	req := request{
		Model:       c.model,
		Messages:    toWire(messages),
		Tools:       toTools(tools),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	reply, err := c.sendRequest(ctx, req)
	if err != nil {
		return models.Message{}, err
	}
	return fromWire(reply)
}

// ExtractRequirements asks for a schema-constrained Requirements document.
func (c *client) ExtractRequirements(ctx context.Context, messages []models.Message) (models.Requirements, error) {
	req := request{
		Model:       c.model,
		Messages:    toWire(messages),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "requirements",
				Strict: true,
				Schema: responseFormatSchema(),
			},
		},
	}
	reply, err := c.sendRequest(ctx, req)
	if err != nil {
		return models.Requirements{}, err
	}
	return parseRequirements(deref(reply.Content))
}

func parseRequirements(content string) (models.Requirements, error) {
	raw, err := helpers.ExtractJSON(content)
	if err != nil {
		return models.Requirements{}, fmt.Errorf("failed to parse requirements: %w", err)
	}
	if err := ValidateRequirements([]byte(raw)); err != nil {
		return models.Requirements{}, err
	}
	var out models.Requirements
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return models.Requirements{}, fmt.Errorf("failed to decode requirements: %w", err)
	}
	out.Query = strings.TrimSpace(out.Query)
	keywords := make([]string, 0, MaxKeywords)
	for _, k := range out.Keywords {
		if k = strings.TrimSpace(k); k != "" && len(keywords) < MaxKeywords {
			keywords = append(keywords, k)
		}
	}
	out.Keywords = keywords
	if out.Requirements == nil {
		out.Requirements = []string{}
	}
	return out, nil
}

// sendRequest posts a chat completion and returns the first choice's message.
func (c *client) sendRequest(ctx context.Context, body request) (message, error) {
	c.logger.Debug("sending chat completion",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Int("tools", len(body.Tools)),
		zap.Bool("structured", body.ResponseFormat != nil),
	)

	jsonData, err := json.Marshal(body)
	if err != nil {
		return message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return message{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return message{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return message{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return message{}, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var openaiResp response
	if err := json.Unmarshal(data, &openaiResp); err != nil {
		return message{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return message{}, errNoChoices
	}
	reply := openaiResp.Choices[0].Message
	c.logger.Debug("received chat completion", zap.Int("tool_calls", len(reply.ToolCalls)))
	return reply, nil
}

func toWire(messages []models.Message) []message {
	out := make([]message, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		w := message{
			Role:       string(m.Role),
			Content:    &content,
			ToolCallID: m.ToolCallID,
		}
		if m.Role == models.RoleTool {
			w.Name = m.Name
		}
		for _, tc := range m.ToolCalls {
			args := "{}"
			if len(tc.Arguments) > 0 {
				if b, err := json.Marshal(tc.Arguments); err == nil {
					args = string(b)
				}
			}
			w.ToolCalls = append(w.ToolCalls, toolCall{
				ID:       tc.ID,
				Type:     "function",
				Function: functionCall{Name: tc.Name, Arguments: args},
			})
		}
		if len(w.ToolCalls) > 0 && content == "" {
			w.Content = nil
		}
		out = append(out, w)
	}
	return out
}

func toTools(specs []models.ToolSpec) []tool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]tool, 0, len(specs))
	for _, s := range specs {
		params := s.Parameters
		if params == nil {
			params = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
		}
		out = append(out, tool{
			Type:     "function",
			Function: toolDefinition{Name: s.Name, Description: s.Description, Parameters: params},
		})
	}
	return out
}

func fromWire(w message) (models.Message, error) {
	out := models.Message{Role: models.RoleAssistant, Content: deref(w.Content)}
	for _, tc := range w.ToolCalls {
		var args map[string]any
		if s := strings.TrimSpace(tc.Function.Arguments); s != "" {
			if err := json.Unmarshal([]byte(s), &args); err != nil {
				return models.Message{}, fmt.Errorf("failed to parse arguments of %s: %w", tc.Function.Name, err)
			}
		}
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{ID: id, Name: tc.Function.Name, Arguments: args})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
