package lunch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"lunch-mate/internal/core/ai/provider"
	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/pkg/common"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
)

const (
	// DefaultPreference 使用者沒有輸入偏好時代入的字句
	DefaultPreference = "Anything good"
	// FallbackReason AI 無法使用時的推薦理由
	FallbackReason = "AI 休息中，這是命運的安排！"
	// DefaultQuote 取不到 AI 名言時的預設字句
	DefaultQuote = "吃飯皇帝大！"

	// emptyCatalogEmoji 目錄為空時仍需回傳非空的 emoji
	emptyCatalogEmoji = "🍽️"

	recommendationSchemaName = "lunch_recommendation"
)

// Recommendation AI（或命運）選出的一道餐點
type Recommendation struct {
	FoodName  string `json:"foodName" jsonschema_description:"The name of the selected food"`
	Reason    string `json:"reason" jsonschema_description:"A fun and short reason (max 2 sentences) why this is a great choice right now"`
	FoodEmoji string `json:"foodEmoji" jsonschema_description:"A single emoji representing the food"`
}

// complete 三個欄位都必須有值
func (r Recommendation) complete() bool {
	return strings.TrimSpace(r.FoodName) != "" &&
		strings.TrimSpace(r.Reason) != "" &&
		strings.TrimSpace(r.FoodEmoji) != ""
}

// Recommender 午餐推薦；任何失敗都吸收為本地隨機挑選，不回傳錯誤
type Recommender struct {
	ai     provider.Generator
	schema *jsonschema.Schema
	pick   func(n int) int
}

// NewRecommender 創建推薦服務；ai 為 nil 時永遠走本地挑選
func NewRecommender(ai provider.Generator) *Recommender {
	return &Recommender{
		ai:     ai,
		schema: provider.SchemaFor(&Recommendation{}),
		pick:   rand.IntN,
	}
}

// availability 由 AI 服務回報是否設定了憑證
type availability interface {
	Available() bool
}

func (r *Recommender) aiReady() bool {
	if r.ai == nil {
		return false
	}
	if a, ok := r.ai.(availability); ok {
		return a.Available()
	}
	return true
}

// Recommend 從目錄中挑一道餐點
func (r *Recommender) Recommend(ctx context.Context, foods []catalog.FoodItem, preference string) Recommendation {
	if len(foods) == 0 {
		common.LogWarn("推薦目錄為空")
		return Recommendation{Reason: FallbackReason, FoodEmoji: emptyCatalogEmoji}
	}

	if !r.aiReady() {
		common.LogInfo("AI 未設定，使用本地挑選", zap.Int("catalog_size", len(foods)))
		return r.fallback(foods)
	}

	rec, err := r.askAI(ctx, foods, preference)
	if err != nil {
		common.LogWarn("AI Recommendation failed",
			zap.Error(err),
			zap.Int("catalog_size", len(foods)),
		)
		return r.fallback(foods)
	}
	return rec
}

func (r *Recommender) askAI(ctx context.Context, foods []catalog.FoodItem, preference string) (Recommendation, error) {
	resp, err := r.ai.Generate(ctx, &provider.Request{
		Prompt:     BuildRecommendationPrompt(catalog.Names(foods), preference),
		Schema:     r.schema,
		SchemaName: recommendationSchemaName,
	})
	if err != nil {
		return Recommendation{}, err
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return Recommendation{}, common.ErrAIEmptyResponse
	}

	var rec Recommendation
	if err := common.ParseJSON(common.ExtractJSONObject(resp.Text), &rec); err != nil {
		return Recommendation{}, common.ErrAIInvalidResponse.Wrap(fmt.Errorf("failed to parse AI response: %w", err))
	}
	if !rec.complete() {
		return Recommendation{}, common.ErrAIInvalidResponse.Wrap(fmt.Errorf("AI response missing required fields"))
	}

	rec.FoodName = strings.TrimSpace(rec.FoodName)
	rec.Reason = strings.TrimSpace(rec.Reason)
	rec.FoodEmoji = strings.TrimSpace(rec.FoodEmoji)
	return rec, nil
}

// fallback 均勻隨機挑一道
func (r *Recommender) fallback(foods []catalog.FoodItem) Recommendation {
	food := foods[r.pick(len(foods))]
	return Recommendation{
		FoodName:  food.Name,
		Reason:    FallbackReason,
		FoodEmoji: food.Emoji,
	}
}

// FetchQuote 取得一句關於午餐的幽默名言
func (r *Recommender) FetchQuote(ctx context.Context) string {
	if !r.aiReady() {
		return DefaultQuote
	}

	resp, err := r.ai.Generate(ctx, &provider.Request{Prompt: QuotePrompt})
	if err != nil {
		common.LogWarn("AI quote failed", zap.Error(err))
		return DefaultQuote
	}
	if resp == nil {
		return DefaultQuote
	}

	quote := strings.TrimSpace(resp.Text)
	if quote == "" {
		return DefaultQuote
	}
	return quote
}
