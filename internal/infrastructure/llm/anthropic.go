package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"prompt-records/internal/core/domain"
	apperrors "prompt-records/internal/pkg/errors"
	"prompt-records/internal/pkg/logger"
)

// recordsToolName is the single tool the backend is forced to invoke;
// the structured payload is extracted from its invocation block.
const recordsToolName = "create_records"

const anthropicMaxTokens = 1024

// AnthropicConfig holds the settings for the Anthropic client.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultAnthropicConfig returns sensible defaults.
func DefaultAnthropicConfig(apiKey string) AnthropicConfig {
	return AnthropicConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.anthropic.com/v1",
		Model:   "claude-3-5-sonnet-20241022",
		Timeout: 60 * time.Second,
	}
}

// AnthropicClient implements Provider using Anthropic tool-use: a
// single create_records tool is advertised with the record JSON schema
// and the backend is forced to invoke it.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAnthropicClient creates a new Anthropic client with defaults.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return NewAnthropicClientWithConfig(DefaultAnthropicConfig(apiKey))
}

// NewAnthropicClientWithConfig creates a new Anthropic client with custom config.
func NewAnthropicClientWithConfig(config AnthropicConfig) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.NewServiceLogger("llm.anthropic"),
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

type anthropicToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type anthropicRequest struct {
	Model      string               `json:"model"`
	MaxTokens  int                  `json:"max_tokens"`
	Messages   []anthropicMessage   `json:"messages"`
	Tools      []anthropicTool      `json:"tools,omitempty"`
	ToolChoice *anthropicToolChoice `json:"tool_choice,omitempty"`
}

type anthropicContentBlock struct {
	Type  string          `json:"type"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// recordsToolSchema matches the expected output shape:
// { records: [{ title?: string|null, description: string }] }
func recordsToolSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"records": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title":       map[string]interface{}{"type": []string{"string", "null"}},
						"description": map[string]interface{}{"type": "string"},
					},
					"required": []string{"description"},
				},
			},
		},
		"required": []string{"records"},
	}
}

// GenerateResponse forces the backend to invoke the create_records
// tool and extracts the structured argument payload from the
// invocation block rather than from free text.
func (c *AnthropicClient) GenerateResponse(ctx context.Context, prompt string) (*domain.GeneratedResponse, error) {
	response, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error("structured generation failed",
			slog.String("model", c.model),
			slog.String("error", err.Error()))
		return nil, apperrors.GenerationFailed(err)
	}
	return response, nil
}

func (c *AnthropicClient) generate(ctx context.Context, prompt string) (*domain.GeneratedResponse, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
		Tools: []anthropicTool{
			{
				Name:        recordsToolName,
				Description: "Return structured records from the response",
				InputSchema: recordsToolSchema(),
			},
		},
		ToolChoice: &anthropicToolChoice{Type: "tool", Name: recordsToolName},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var anthropicResp anthropicResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if anthropicResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", anthropicResp.Error.Message)
	}

	var toolInput json.RawMessage
	for _, block := range anthropicResp.Content {
		if block.Type == "tool_use" && block.Name == recordsToolName {
			toolInput = block.Input
			break
		}
	}
	if toolInput == nil {
		return nil, fmt.Errorf("no structured tool output from Anthropic")
	}

	var response domain.GeneratedResponse
	if err := json.Unmarshal(toolInput, &response); err != nil {
		return nil, fmt.Errorf("tool input is not valid JSON: %w", err)
	}

	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("response failed schema validation: %w", err)
	}

	c.logger.Debug("structured generation completed",
		slog.String("model", c.model),
		slog.Int("record_count", len(response.Records)))

	return &response, nil
}
