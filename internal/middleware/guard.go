package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionGuard 服务端路由守卫
// 只检查会话 Cookie 是否存在且非空，不校验 Token；路径需完全匹配
func SessionGuard(cookieName string, protected []string, loginPath string) gin.HandlerFunc {
	paths := make(map[string]struct{}, len(protected))
	for _, p := range protected {
		paths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := paths[c.Request.URL.Path]; !ok {
			c.Next()
			return
		}

		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}
