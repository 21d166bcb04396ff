package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "google/gemini-2.5-flash"
)

// Config OpenRouter 客戶端設定
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Referer     string
	Title       string
	Timeout     time.Duration
}

// Client OpenRouter API 客戶端
type Client struct {
	client      *resty.Client
	model       string
	maxTokens   int
	temperature float64
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示 API 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat 結構化輸出設定
type ResponseFormat struct {
	Type       string     `json:"type"`
	JSONSchema JSONSchema `json:"json_schema"`
}

// JSONSchema 結構化輸出 schema
type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// Error 表示 API 錯誤
type Error struct {
	Error struct {
		Message string      `json:"message"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, common.ErrAIUnavailable
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")
	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		client.SetHeader("X-Title", cfg.Title)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := Request{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: req.Prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	if req.Structured() {
		schema, err := provider.SchemaMap(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response schema: %w", err)
		}
		name := req.SchemaName
		if name == "" {
			name = "response"
		}
		body.ResponseFormat = &ResponseFormat{
			Type: "json_schema",
			JSONSchema: JSONSchema{
				Name:   name,
				Strict: true,
				Schema: schema,
			},
		}
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", c.model),
		zap.Bool("structured", req.Structured()),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to send request to OpenRouter: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr Error
		if err := json.Unmarshal(resp.Body(), &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("openrouter error (%d): %s", resp.StatusCode(), apiErr.Error.Message))
		}
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("openrouter error (%d): %s", resp.StatusCode(), strings.TrimSpace(resp.String())))
	}

	var parsed Response
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, common.ErrAIInvalidResponse.Wrap(fmt.Errorf("failed to parse OpenRouter response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, common.ErrAIEmptyResponse.Wrap(fmt.Errorf("no choices in OpenRouter response"))
	}

	content, err := messageContent(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &provider.Response{Text: content, Usage: parsed.Usage}, nil
}

// messageContent content 可能是字串，也可能是 [{type,text}] 陣列
func messageContent(raw json.RawMessage) (string, error) {
	var content string
	if err := json.Unmarshal(raw, &content); err == nil {
		content = strings.TrimSpace(content)
		if content == "" {
			return "", common.ErrAIEmptyResponse
		}
		return content, nil
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", common.ErrAIInvalidResponse.Wrap(fmt.Errorf("unable to parse response message content: %w", err))
	}

	var builder strings.Builder
	for _, part := range parts {
		if part.Type == "text" {
			builder.WriteString(part.Text)
		}
	}
	content = strings.TrimSpace(builder.String())
	if content == "" {
		return "", common.ErrAIEmptyResponse
	}
	return content, nil
}

// Model 當前模型
func (c *Client) Model() string {
	return c.model
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
