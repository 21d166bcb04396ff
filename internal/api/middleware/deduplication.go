package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lunch-mate/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// requestCache 最近一次請求時間，以指紋為鍵
type requestCache struct {
	sync.Mutex
	requests map[string]time.Time
	window   time.Duration
}

// seen 在 window 內看過同一指紋時回傳 true，否則記錄這次請求
func (rc *requestCache) seen(fingerprint string, now time.Time) bool {
	rc.Lock()
	defer rc.Unlock()

	if last, ok := rc.requests[fingerprint]; ok && now.Sub(last) <= rc.window {
		return true
	}
	rc.requests[fingerprint] = now
	return false
}

// sweep 清掉過期的指紋
func (rc *requestCache) sweep(now time.Time) int {
	rc.Lock()
	defer rc.Unlock()

	count := 0
	for k, t := range rc.requests {
		if now.Sub(t) > 10*rc.window {
			delete(rc.requests, k)
			count++
		}
	}
	return count
}

// Deduplication 請求去重中間件：window 內內容相同的 POST 回傳 429
// 清理 goroutine 在 done 關閉時停止
func Deduplication(done <-chan struct{}, window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = defaultDedupWindow
	}
	cache := &requestCache{
		requests: make(map[string]time.Time),
		window:   window,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				if n := cache.sweep(now); n > 0 {
					common.LogDebug("Cleaned up dedup fingerprints", zap.Int("count", n))
				}
			}
		}
	}()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + c.ClientIP() + ":" + c.GetHeader("X-Client-ID")
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if cache.seen(fingerprint, time.Now()) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response())
			return
		}

		c.Next()
	}
}
