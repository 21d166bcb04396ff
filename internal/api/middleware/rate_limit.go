package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"lunch-mate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器，window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return newRateLimiter(requests, window, time.Now)
}

func newRateLimiter(requests int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: now(),
		now:      now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.tokens = min(rl.capacity, rl.tokens+now.Sub(rl.lastTime).Seconds()*rl.rate)
	rl.lastTime = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idle 距離上次請求的時間
func (rl *RateLimiter) idle(now time.Time) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return now.Sub(rl.lastTime)
}

// clientLimiters 每個用戶端 IP 一個令牌桶
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	requests int
	window   time.Duration
	now      func() time.Time
}

func newClientLimiters(requests int, window time.Duration, now func() time.Time) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
		now:      now,
	}
}

func (l *clientLimiters) get(key string) *RateLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	rl, ok := l.limiters[key]
	if !ok {
		rl = newRateLimiter(l.requests, l.window, l.now)
		l.limiters[key] = rl
	}
	return rl
}

// sweep 移除閒置超過一個 window 的令牌桶；這些桶已補滿，刪掉與新建無異
func (l *clientLimiters) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	count := 0
	for key, rl := range l.limiters {
		if rl.idle(now) >= l.window {
			delete(l.limiters, key)
			count++
		}
	}
	return count
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.limiters)
}

// RateLimit 限流中間件，以 c.ClientIP() 區分用戶端
// 用戶端 IP 是否採信 X-Forwarded-For 由 engine 的 SetTrustedProxies 決定
// 清理 goroutine 在 done 關閉時停止
func RateLimit(done <-chan struct{}, requests int, window time.Duration) gin.HandlerFunc {
	return rateLimit(done, newClientLimiters(requests, window, time.Now))
}

func rateLimit(done <-chan struct{}, limiters *clientLimiters) gin.HandlerFunc {
	window := limiters.window

	// 定期清理閒置的令牌桶
	go func() {
		ticker := time.NewTicker(max(window, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if n := limiters.sweep(); n > 0 {
					common.LogDebug("Cleaned up idle rate limiters", zap.Int("count", n))
				}
			}
		}
	}()

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response())
			return
		}

		c.Next()
	}
}
