package provider

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Prompt string
	// Schema 不為 nil 時要求結構化 JSON 回應
	Schema     *jsonschema.Schema
	SchemaName string
}

// Structured 是否要求結構化回應
func (r *Request) Structured() bool {
	return r != nil && r.Schema != nil
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Generator 由提示詞生成內容的最小能力
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Provider 定義 AI 提供者介面
type Provider interface {
	Generator

	// Model 獲取當前使用的模型名稱
	Model() string

	// Close 關閉提供者連接
	Close() error
}

// SchemaFor 以反射產生 v 的 JSON schema，展開為單一物件不使用 $ref
func SchemaFor(v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return r.Reflect(v)
}

// SchemaMap 將 schema 轉為一般 map，方便放進請求 body
func SchemaMap(s *jsonschema.Schema) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
