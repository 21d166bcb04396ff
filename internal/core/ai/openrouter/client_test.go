package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pick struct {
	FoodName string `json:"foodName"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Title:   "Lunch Mate",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, errors.Is(err, common.ErrAIUnavailable))
}

func TestGenerateStructured(t *testing.T) {
	var got Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "Lunch Mate", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"{\"foodName\":\"壽司\"}"}}],"usage":{"total_tokens":12}}`))
	})

	resp, err := client.Generate(context.Background(), &provider.Request{
		Prompt:     "pick",
		Schema:     provider.SchemaFor(&pick{}),
		SchemaName: "lunch_pick",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"foodName":"壽司"}`, resp.Text)
	assert.Equal(t, 12, resp.Usage.TotalTokens)

	assert.Equal(t, defaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "pick", got.Messages[0].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "lunch_pick", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, "object", got.ResponseFormat.JSONSchema.Schema["type"])
}

func TestGeneratePlainTextOmitsResponseFormat(t *testing.T) {
	var raw map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":[{"type":"text","text":"  吃飽再說  "}]}}]}`))
	})

	resp, err := client.Generate(context.Background(), &provider.Request{Prompt: "quote"})
	require.NoError(t, err)
	assert.Equal(t, "吃飽再說", resp.Text)
	assert.NotContains(t, raw, "response_format")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","code":401}}`, common.ErrAIServiceError, "bad key"},
		{"non json error", http.StatusBadGateway, `upstream down`, common.ErrAIServiceError, "upstream down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, common.ErrAIEmptyResponse, ""},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, common.ErrAIEmptyResponse, ""},
		{"garbage", http.StatusOK, `not json`, common.ErrAIInvalidResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), &provider.Request{Prompt: "x"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGenerateTransportError(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), &provider.Request{Prompt: "x"})
	assert.True(t, errors.Is(err, common.ErrAIServiceError))
	assert.NoError(t, client.Close())
}
