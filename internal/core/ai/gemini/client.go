package gemini

import (
	"context"
	"fmt"
	"strings"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/pkg/common"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Config Gemini 客戶端設定
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

// Client 以 genai SDK 呼叫 Gemini
type Client struct {
	client      *genai.Client
	model       string
	temperature float64
}

// NewClient 創建 Gemini 客戶端
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, common.ErrAIUnavailable
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	genCfg := &genai.GenerateContentConfig{}
	if c.temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(c.temperature))
	}
	if req.Structured() {
		genCfg.ResponseMIMEType = "application/json"
		genCfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	common.LogDebug("Sending request to Gemini",
		zap.String("model", c.model),
		zap.Bool("structured", req.Structured()),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("gemini request failed: %w", err))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, common.ErrAIEmptyResponse
	}

	out := &provider.Response{Text: text}
	if resp.UsageMetadata != nil {
		out.Usage = provider.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// Model 當前模型
func (c *Client) Model() string {
	return c.model
}

// Close genai 客戶端不持有需要釋放的連線
func (c *Client) Close() error {
	return nil
}

// toGenaiSchema 將反射產生的 JSON schema 轉為 genai.Schema，保留欄位順序
func toGenaiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
	}
	if s.Items != nil {
		out.Items = toGenaiSchema(s.Items)
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = toGenaiSchema(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
