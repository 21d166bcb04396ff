package lunch

import (
	"net/http"
	"strings"

	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// FoodsResponse 餐點列表
type FoodsResponse struct {
	Foods []catalog.FoodItem `json:"foods"`
	Total int                `json:"total"`
}

func foodsResponse(foods []catalog.FoodItem) FoodsResponse {
	if foods == nil {
		foods = []catalog.FoodItem{}
	}
	return FoodsResponse{Foods: foods, Total: len(foods)}
}

// ListFoods GET /foods?category=&tag=
func (h *Handler) ListFoods(c *gin.Context) {
	cat, err := parseCategory(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, foodsResponse(h.catalog.Filter(cat, strings.TrimSpace(c.Query("tag")))))
}

// GetFood GET /foods/:id
func (h *Handler) GetFood(c *gin.Context) {
	food, ok := h.catalog.FindByID(c.Param("id"))
	if !ok {
		respondError(c, common.ErrFoodNotFound)
		return
	}
	c.JSON(http.StatusOK, food)
}

// ListCategories GET /categories
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// ListScenarios GET /scenarios
func (h *Handler) ListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": h.catalog.Scenarios()})
}

// ScenarioFoods GET /scenarios/:id/foods
func (h *Handler) ScenarioFoods(c *gin.Context) {
	foods, ok := h.catalog.ByScenario(c.Param("id"))
	if !ok {
		respondError(c, common.ErrScenarioNotFound)
		return
	}
	c.JSON(http.StatusOK, foodsResponse(foods))
}
