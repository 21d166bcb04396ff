package lunch

import (
	"net/http"

	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoritesResponse 收藏列表，ids 保持加入順序
type FavoritesResponse struct {
	Owner string             `json:"owner"`
	IDs   []string           `json:"ids"`
	Foods []catalog.FoodItem `json:"foods"`
}

// ToggleResponse 切換後的收藏狀態
type ToggleResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

// ListFavorites GET /favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	who := owner(c)
	ids, err := h.favorites.List(c.Request.Context(), who)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := FavoritesResponse{Owner: who, IDs: []string{}, Foods: []catalog.FoodItem{}}
	for _, id := range ids {
		// 目錄中已不存在的 id 不回傳
		food, ok := h.catalog.FindByID(id)
		if !ok {
			continue
		}
		resp.IDs = append(resp.IDs, id)
		resp.Foods = append(resp.Foods, food)
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleFavorite POST /favorites/:id
func (h *Handler) ToggleFavorite(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.catalog.FindByID(id); !ok {
		respondError(c, common.ErrFoodNotFound)
		return
	}

	who := owner(c)
	on, err := h.favorites.Toggle(c.Request.Context(), who, id)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogDebug("收藏已切換",
		zap.String("owner", who),
		zap.String("food_id", id),
		zap.Bool("is_favorite", on),
	)
	c.JSON(http.StatusOK, ToggleResponse{ID: id, IsFavorite: on})
}

// RemoveFavorite DELETE /favorites/:id
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id := c.Param("id")
	if err := h.favorites.Remove(c.Request.Context(), owner(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{ID: id, IsFavorite: false})
}
