package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/pkg/response"
	"go.uber.org/zap"
)

// Recovery 恢复中间件
// 捕获 panic 并记录日志；API 请求返回 JSON，页面请求返回纯文本
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get(RequestIDKey)

				logger.Error("服务器内部错误",
					zap.Any("request_id", requestID),
					zap.Any("error", r),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("ip", c.ClientIP()),
				)

				if strings.HasPrefix(c.Request.URL.Path, "/api/") {
					c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
						Code: response.CodeServerError,
						Msg:  "服务器内部错误，请稍后重试",
						Data: nil,
					})
					return
				}
				c.Header("Content-Type", "text/plain; charset=utf-8")
				c.AbortWithStatus(http.StatusInternalServerError)
				_, _ = c.Writer.WriteString("Something went wrong. Please retry.")
			}
		}()
		c.Next()
	}
}
