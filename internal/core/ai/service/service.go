package service

import (
	"context"
	"fmt"
	"time"

	"lunch-mate/internal/core/ai/gemini"
	"lunch-mate/internal/core/ai/openrouter"
	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/infrastructure/config"
	"lunch-mate/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務；沒有憑證時保持可用但每次呼叫都直接回傳 ErrAIUnavailable
type Service struct {
	provider provider.Provider
	timeout  time.Duration
}

// NewService 依設定創建 AI 服務
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if !cfg.AIConfigured() {
		common.LogWarn("AI 憑證未設定，推薦將改用本地隨機挑選",
			zap.String("provider", cfg.AI.Provider),
		)
		return &Service{timeout: cfg.AI.Timeout}, nil
	}

	p, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	common.LogInfo("AI 服務已初始化",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", p.Model()),
		zap.String("credential", config.MaskAPIKey(cfg.Credential())),
	)

	return NewWithProvider(p, cfg.AI.Timeout), nil
}

// NewWithProvider 以現成的提供者創建 AI 服務
func NewWithProvider(p provider.Provider, timeout time.Duration) *Service {
	return &Service{provider: p, timeout: timeout}
}

func newProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenRouter:
		return openrouter.NewClient(openrouter.Config{
			APIKey:      cfg.OpenRouter.APIKey,
			Model:       cfg.OpenRouter.Model,
			BaseURL:     cfg.OpenRouter.BaseURL,
			MaxTokens:   cfg.OpenRouter.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Referer:     cfg.OpenRouter.Referer,
			Title:       cfg.OpenRouter.Title,
			Timeout:     cfg.AI.Timeout,
		})
	case config.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			BaseURL:     cfg.AI.BaseURL,
			Temperature: cfg.AI.Temperature,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
}

// Available 是否能呼叫外部 AI
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Model 當前模型，未設定時回傳空字串
func (s *Service) Model() string {
	if !s.Available() {
		return ""
	}
	return s.provider.Model()
}

// Generate 呼叫 AI 提供者，附加逾時與耗時紀錄
func (s *Service) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !s.Available() {
		return nil, common.ErrAIUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	operation := "text"
	if req.Structured() {
		operation = req.SchemaName
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(operation, s.provider.Model(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if resp.Usage.TotalTokens > 0 {
		common.LogDebug("API usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Int("total_tokens", resp.Usage.TotalTokens),
		)
	}
	return resp, nil
}

// Close 關閉提供者
func (s *Service) Close() error {
	if !s.Available() {
		return nil
	}
	return s.provider.Close()
}
