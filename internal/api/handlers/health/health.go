package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/infrastructure/config"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 注入 gin.Context 的鍵
const (
	ConfigKey    = "config"
	AIServiceKey = "ai_service"
	CatalogKey   = "catalog"
	FavoritesKey = "favorites"
)

// AIStatus 由 AI 服務提供
type AIStatus interface {
	Available() bool
	Model() string
}

// Pinger 可檢查外部連線的儲存
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Version     string                 `json:"version"`
	CatalogSize int                    `json:"catalog_size"`
	AI          AIInfo                 `json:"ai"`
	Favorites   string                 `json:"favorites_backend"`
	Runtime     map[string]interface{} `json:"runtime"`
}

// AIInfo AI 狀態；available 為 false 時推薦全部走本地挑選
type AIInfo struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.Get(ConfigKey)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}
	conf, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}

	ai := AIInfo{Provider: conf.AI.Provider}
	if v, ok := c.Get(AIServiceKey); ok {
		if svc, ok := v.(AIStatus); ok {
			ai.Available = svc.Available()
			ai.Model = svc.Model()
		}
	}

	size := 0
	if v, ok := c.Get(CatalogKey); ok {
		if cat, ok := v.(*catalog.Catalog); ok {
			size = cat.Len()
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Version:     conf.App.Version,
		CatalogSize: size,
		AI:          ai,
		Favorites:   conf.Favorites.Backend,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，收藏儲存連不上時回傳 503
func ReadinessCheck(c *gin.Context) {
	if v, ok := c.Get(FavoritesKey); ok {
		if p, ok := v.(Pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				common.LogWarn("Readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not_ready",
					"reason": "favorites store unreachable",
				})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
