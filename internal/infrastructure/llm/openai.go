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

const openAISystemPrompt = "You are a helpful assistant that provides detailed, structured responses. " +
	"Break down your response into multiple clear, actionable items when appropriate."

// openAITemperature is a fixed per-provider constant, not exposed to callers.
const openAITemperature = 0.7

// OpenAIConfig holds the settings for the OpenAI client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}

// OpenAIClient implements Provider using OpenAI JSON mode: the model is
// constrained to emit JSON matching the record schema, and the text
// channel is parsed and re-validated on receipt.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAIClient creates a new OpenAI client with defaults.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom config.
func NewOpenAIClientWithConfig(config OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.NewServiceLogger("llm.openai"),
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type openAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// recordsResponseSchema is the JSON schema the model output is
// constrained to. Strict mode requires every property listed in
// required and additionalProperties disabled; title stays nullable.
func recordsResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"records": map[string]interface{}{
				"type":        "array",
				"description": "Array of structured records from the response",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title": map[string]interface{}{
							"type":        []string{"string", "null"},
							"description": "A short, clear heading for the item",
						},
						"description": map[string]interface{}{
							"type":        "string",
							"description": "Detailed explanation or content of the item",
						},
					},
					"required":             []string{"title", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"records"},
		"additionalProperties": false,
	}
}

// GenerateResponse sends the prompt with an enforced output schema and
// re-validates whatever comes back before trusting it.
func (c *OpenAIClient) GenerateResponse(ctx context.Context, prompt string) (*domain.GeneratedResponse, error) {
	response, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error("structured generation failed",
			slog.String("model", c.model),
			slog.String("error", err.Error()))
		return nil, apperrors.GenerationFailed(err)
	}
	return response, nil
}

func (c *OpenAIClient) generate(ctx context.Context, prompt string) (*domain.GeneratedResponse, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: openAITemperature,
		ResponseFormat: &openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: &openAIJSONSchema{
				Name:   "records_response",
				Strict: true,
				Schema: recordsResponseSchema(),
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if openAIResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 || openAIResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no content received from OpenAI")
	}

	// The backend's schema enforcement is not trusted as sufficient:
	// the text channel can still fail to produce parseable JSON.
	var response domain.GeneratedResponse
	if err := json.Unmarshal([]byte(openAIResp.Choices[0].Message.Content), &response); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("response failed schema validation: %w", err)
	}

	c.logger.Debug("structured generation completed",
		slog.String("model", c.model),
		slog.Int("record_count", len(response.Records)))

	return &response, nil
}
