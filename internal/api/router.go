package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lunch-mate/internal/api/handlers/health"
	lunchHandler "lunch-mate/internal/api/handlers/lunch"
	"lunch-mate/internal/api/middleware"
	"lunch-mate/internal/core/ai/service"
	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/core/favorites"
	"lunch-mate/internal/core/lunch"
	"lunch-mate/internal/infrastructure/config"
	"lunch-mate/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由需要的服務
type Services struct {
	AI          *service.Service
	Catalog     *catalog.Catalog
	Favorites   favorites.Store
	Recommender *lunch.Recommender
}

// NewServices 依設定初始化所有服務
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	aiService, err := service.NewService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	store, err := favorites.NewStore(ctx, &cfg.Favorites)
	if err != nil {
		_ = aiService.Close()
		return nil, fmt.Errorf("failed to initialize favorites store: %w", err)
	}

	cat := catalog.Default()
	common.LogInfo("Services initialized",
		zap.Bool("ai_available", aiService.Available()),
		zap.String("model", aiService.Model()),
		zap.String("favorites_backend", cfg.Favorites.Backend),
		zap.Int("catalog_size", cat.Len()),
	)

	return &Services{
		AI:          aiService,
		Catalog:     cat,
		Favorites:   store,
		Recommender: lunch.NewRecommender(aiService),
	}, nil
}

// Close 關閉外部連線
func (s *Services) Close() error {
	var errs []error
	if s.Favorites != nil {
		errs = append(errs, s.Favorites.Close())
	}
	if s.AI != nil {
		errs = append(errs, s.AI.Close())
	}
	return errors.Join(errs...)
}

// SetupRouter 設置路由；done 關閉時停止背景清理
func SetupRouter(cfg *config.Config, svc *Services, done <-chan struct{}) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 只有列在設定中的代理才能以 X-Forwarded-For 指定用戶端 IP
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", lunchHandler.ClientIDHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 注入健康檢查需要的服務
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		c.Set(health.AIServiceKey, svc.AI)
		c.Set(health.CatalogKey, svc.Catalog)
		c.Set(health.FavoritesKey, svc.Favorites)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(done, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 只有推薦需要去重，收藏切換本身可以重複送出
	handler := lunchHandler.NewHandler(svc.Catalog, svc.Recommender, svc.Favorites)
	handler.Register(api, middleware.Deduplication(done, cfg.DedupWindow))

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_available", svc.AI.Available()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Strings("trusted_proxies", cfg.Server.TrustedProxies),
	)

	return router, nil
}
