package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lunch-mate/internal/core/catalog"
	"lunch-mate/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct{}

func (fakeAI) Available() bool { return true }
func (fakeAI) Model() string   { return "gemini-2.5-flash" }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newRouter(values map[string]any) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		for k, v := range values {
			c.Set(k, v)
		}
		c.Next()
	})
	r.GET("/health", HealthCheck)
	r.GET("/ready", ReadinessCheck)
	r.GET("/live", LivenessCheck)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{Version: "1.2.3"},
		AI:        config.AIConfig{Provider: config.ProviderGemini},
		Favorites: config.FavoritesConfig{Backend: config.BackendMemory},
	}
	r := newRouter(map[string]any{
		ConfigKey:    cfg,
		AIServiceKey: fakeAI{},
		CatalogKey:   catalog.Default(),
	})

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, 18, resp.CatalogSize)
	assert.True(t, resp.AI.Available)
	assert.Equal(t, "gemini-2.5-flash", resp.AI.Model)
	assert.Equal(t, config.BackendMemory, resp.Favorites)
}

func TestHealthCheckWithoutConfig(t *testing.T) {
	w := get(newRouter(nil), "/health")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReadinessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, get(newRouter(nil), "/ready").Code)
	assert.Equal(t, http.StatusOK, get(newRouter(map[string]any{FavoritesKey: fakePinger{}}), "/ready").Code)

	w := get(newRouter(map[string]any{FavoritesKey: fakePinger{err: errors.New("down")}}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLivenessCheck(t *testing.T) {
	w := get(newRouter(nil), "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}
