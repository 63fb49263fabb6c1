package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	resp "grocery-backend/internal/transport/http/response"
)

// Limits 入口保护参数；零值字段取默认
type Limits struct {
	RPS        float64
	Burst      int
	PerIPRPS   float64
	PerIPBurst int
	Inflight   int64
	QueueWait  time.Duration // 满载时最多排队多久
	MaxBody    int64
	Timeout    time.Duration
}

func (l Limits) withDefaults() Limits {
	def := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&l.RPS, 200)
	def(&l.PerIPRPS, 20)
	if l.Burst <= 0 {
		l.Burst = int(l.RPS * 2)
	}
	if l.PerIPBurst <= 0 {
		l.PerIPBurst = int(l.PerIPRPS * 2)
	}
	if l.Inflight <= 0 {
		l.Inflight = 300
	}
	if l.QueueWait <= 0 {
		l.QueueWait = 100 * time.Millisecond
	}
	if l.MaxBody <= 0 {
		l.MaxBody = 1 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	return l
}

// Guards 按顺序：全局限速、单 IP 限速、并发上限、请求体上限、超时
func Guards(l Limits) []gin.HandlerFunc {
	l = l.withDefaults()
	return []gin.HandlerFunc{
		RateLimit(rate.Limit(l.RPS), l.Burst),
		RateLimitPerIP(rate.Limit(l.PerIPRPS), l.PerIPBurst, 10*time.Minute),
		ConcurrencyLimit(l.Inflight, l.QueueWait),
		MaxBodyBytes(l.MaxBody),
		Timeout(l.Timeout),
	}
}

// ConcurrencyLimit 同时处理的请求数上限，排队超过 wait 返回 503
func ConcurrencyLimit(n int64, wait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := sem.Acquire(ctx, 1)
		cancel()
		if err != nil {
			resp.Abort(c, resp.CodeUnavailable, "Server is busy, try again later.")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

// MaxBodyBytes 只包一层 reader；超限由绑定阶段报成字段错误
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// Timeout 给请求 context 加期限；下游因超时返回且还没写响应时回 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, resp.CodeTimeout, "Request timed out.")
		}
	}
}
