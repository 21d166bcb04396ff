package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/infrastructure/config"
	"lunch-mate/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ *provider.Request) (*provider.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (slowProvider) Model() string { return "slow" }
func (slowProvider) Close() error  { return nil }

func testConfig(name, geminiKey, openRouterKey, baseURL string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Provider: name,
			APIKey:   geminiKey,
			Model:    "gemini-2.5-flash",
			BaseURL:  baseURL,
			Timeout:  5 * time.Second,
		},
		OpenRouter: config.OpenRouterConfig{
			APIKey:  openRouterKey,
			Model:   "google/gemini-2.5-flash",
			BaseURL: baseURL,
		},
	}
}

func TestServiceWithoutCredentialNeverCallsOut(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	for _, p := range []string{config.ProviderGemini, config.ProviderOpenRouter} {
		svc, err := NewService(context.Background(), testConfig(p, "", "", server.URL))
		require.NoError(t, err)
		assert.False(t, svc.Available())
		assert.Empty(t, svc.Model())

		_, err = svc.Generate(context.Background(), &provider.Request{Prompt: "hi"})
		assert.True(t, errors.Is(err, common.ErrAIUnavailable))
		assert.NoError(t, svc.Close())
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestServiceSelectsOpenRouter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"吃飯皇帝大"}}]}`))
	}))
	defer server.Close()

	svc, err := NewService(context.Background(), testConfig(config.ProviderOpenRouter, "", "or-key", server.URL))
	require.NoError(t, err)
	require.True(t, svc.Available())
	assert.Equal(t, "google/gemini-2.5-flash", svc.Model())

	resp, err := svc.Generate(context.Background(), &provider.Request{Prompt: "quote"})
	require.NoError(t, err)
	assert.Equal(t, "吃飯皇帝大", resp.Text)
}

func TestServiceAppliesTimeout(t *testing.T) {
	svc := NewWithProvider(slowProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Generate(context.Background(), &provider.Request{Prompt: "hi"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)
}
