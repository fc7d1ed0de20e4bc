package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prompt-records/internal/pkg/errors"
)

func newTestAnthropicClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAnthropicClientWithConfig(AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "claude-3-5-sonnet-20241022",
		Timeout: 5 * time.Second,
	})
}

func TestAnthropicClient_GenerateResponse(t *testing.T) {
	var gotRequest anthropicRequest

	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "Here are your records."},
				{
					"type": "tool_use",
					"name": "create_records",
					"input": map[string]interface{}{
						"records": []map[string]interface{}{
							{"title": "Retirement", "description": "Max out your 401k"},
							{"title": nil, "description": "Harvest losses"},
						},
					},
				},
			},
		})
	})

	response, err := client.GenerateResponse(context.Background(), "Give me tax strategies")

	require.NoError(t, err)
	require.Len(t, response.Records, 2)
	require.NotNil(t, response.Records[0].Title)
	assert.Equal(t, "Retirement", *response.Records[0].Title)
	assert.Nil(t, response.Records[1].Title)

	// the backend is forced to invoke the single records tool
	require.Len(t, gotRequest.Tools, 1)
	assert.Equal(t, recordsToolName, gotRequest.Tools[0].Name)
	require.NotNil(t, gotRequest.ToolChoice)
	assert.Equal(t, "tool", gotRequest.ToolChoice.Type)
	assert.Equal(t, recordsToolName, gotRequest.ToolChoice.Name)
	assert.Equal(t, anthropicMaxTokens, gotRequest.MaxTokens)
	require.Len(t, gotRequest.Messages, 1)
	assert.Equal(t, "user", gotRequest.Messages[0].Role)
}

func TestAnthropicClient_GenerateResponse_NoToolUse(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "I could not produce structured output."},
			},
		})
	})

	_, err := client.GenerateResponse(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationFailed))
}

func TestAnthropicClient_GenerateResponse_WrongToolName(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type":  "tool_use",
					"name":  "some_other_tool",
					"input": map[string]interface{}{"records": []interface{}{}},
				},
			},
		})
	})

	_, err := client.GenerateResponse(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationFailed))
}

func TestAnthropicClient_GenerateResponse_SchemaViolation(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "tool_use",
					"name": "create_records",
					"input": map[string]interface{}{
						"records": []map[string]interface{}{
							{"title": "T", "description": ""},
						},
					},
				},
			},
		})
	})

	_, err := client.GenerateResponse(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationFailed))
}

func TestAnthropicClient_GenerateResponse_APIError(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"type": "invalid_request_error", "message": "bad request"},
		})
	})

	_, err := client.GenerateResponse(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeGenerationFailed))
}
