package lunch

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"lunch-mate/internal/core/catalog"
	lunchService "lunch-mate/internal/core/lunch"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendRequest 推薦請求，category 與 scenario 皆可省略
type RecommendRequest struct {
	Preference string `json:"preference"`
	Category   string `json:"category,omitempty"`
	Scenario   string `json:"scenario,omitempty"`
}

// RecommendResponse 推薦結果；food_id 只在名稱能對回目錄時出現
type RecommendResponse struct {
	lunchService.Recommendation
	FoodID     string `json:"food_id,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// QuoteResponse 午餐名言
type QuoteResponse struct {
	Quote string `json:"quote"`
}

// Recommend POST /recommend
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
		respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	foods, err := h.selection(req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	rec := h.recommender.Recommend(ctx, foods, req.Preference)
	resp := RecommendResponse{Recommendation: rec}

	if food, ok := h.catalog.FindByName(rec.FoodName); ok {
		resp.FoodID = food.ID
		ids, err := h.favorites.List(ctx, owner(c))
		if err != nil {
			// 收藏狀態取不到時只記錄，不影響推薦
			common.LogWarn("讀取收藏失敗", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		resp.IsFavorite = slices.Contains(ids, food.ID)
	}

	common.LogInfo("推薦完成",
		zap.String("request_id", requestID(c)),
		zap.String("food", rec.FoodName),
		zap.Bool("from_catalog", resp.FoodID != ""),
		zap.Bool("fallback", rec.Reason == lunchService.FallbackReason),
		zap.Int("candidates", len(foods)),
	)
	c.JSON(http.StatusOK, resp)
}

// selection 依分類與情境篩出候選餐點
func (h *Handler) selection(req RecommendRequest) ([]catalog.FoodItem, error) {
	cat, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	foods := h.catalog.All()
	if id := strings.TrimSpace(req.Scenario); id != "" {
		var ok bool
		if foods, ok = h.catalog.ByScenario(id); !ok {
			return nil, common.ErrScenarioNotFound
		}
	}
	if cat != "" {
		foods = slices.DeleteFunc(foods, func(f catalog.FoodItem) bool { return f.Category != cat })
	}

	if len(foods) == 0 {
		return nil, common.ErrEmptySelection
	}
	return foods, nil
}

// Quote GET /quote
func (h *Handler) Quote(c *gin.Context) {
	c.JSON(http.StatusOK, QuoteResponse{Quote: h.recommender.FetchQuote(c.Request.Context())})
}
