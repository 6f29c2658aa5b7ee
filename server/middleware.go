package server

import (
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID 沿用调用方传入的 X-Request-Id，没有则生成 ksuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// CORS 所有响应（包括错误和 404）都带上允许的来源。
// 请求的 Origin 在白名单内时回显，否则返回白名单第一项；白名单含 * 时返回 *
func CORS(allowedOrigins []string) gin.HandlerFunc {
	wildcard := slices.Contains(allowedOrigins, "*")

	return func(c *gin.Context) {
		allow := "*"
		if !wildcard {
			allow = allowedOrigins[0]
			if origin := c.GetHeader("Origin"); slices.Contains(allowedOrigins, origin) {
				allow = origin
			}
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allow)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		h.Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestIDFrom(c)),
		)
	}
}

// Recovery panic 时记录日志并返回 JSON 500
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestIDFrom(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, cropResponse{Success: false, Error: "internal error"})
	})
}
