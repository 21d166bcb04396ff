package lunch

import (
	"errors"
	"net/http"
	"strings"

	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/core/favorites"
	lunchService "lunch-mate/internal/core/lunch"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientIDHeader 用來區分收藏擁有者的標頭
const ClientIDHeader = "X-Client-ID"

// Handler 午餐相關 API
type Handler struct {
	catalog     *catalog.Catalog
	recommender *lunchService.Recommender
	favorites   favorites.Store
}

// NewHandler 創建處理器
func NewHandler(cat *catalog.Catalog, recommender *lunchService.Recommender, store favorites.Store) *Handler {
	return &Handler{
		catalog:     cat,
		recommender: recommender,
		favorites:   store,
	}
}

// Register 註冊路由，recommendGuard 只套用在推薦路由上
func (h *Handler) Register(api *gin.RouterGroup, recommendGuard ...gin.HandlerFunc) {
	api.GET("/foods", h.ListFoods)
	api.GET("/foods/:id", h.GetFood)
	api.GET("/categories", h.ListCategories)
	api.GET("/scenarios", h.ListScenarios)
	api.GET("/scenarios/:id/foods", h.ScenarioFoods)

	api.GET("/favorites", h.ListFavorites)
	api.POST("/favorites/:id", h.ToggleFavorite)
	api.DELETE("/favorites/:id", h.RemoveFavorite)

	api.POST("/recommend", append(recommendGuard, h.Recommend)...)
	api.GET("/quote", h.Quote)
}

func owner(c *gin.Context) string {
	return favorites.NormalizeOwner(c.GetHeader(ClientIDHeader))
}

func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}

// respondError 以 CustomError 的狀態碼與代碼回應
func respondError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		err = common.ErrRequestTooLarge.Wrap(err)
	}

	ce := common.AsCustomError(err)
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestID(c)),
		)
	}

	c.AbortWithStatusJSON(ce.Status, ce.Response())
}

// parseCategory 空字串表示不篩選
func parseCategory(raw string) (catalog.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	cat := catalog.Category(raw)
	if !cat.Valid() {
		return "", common.NewError(common.ErrCodeInvalidRequest, "未知的餐點分類", http.StatusBadRequest, nil)
	}
	return cat, nil
}
