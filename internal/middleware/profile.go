package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"go.uber.org/zap"
)

// ProfileConfig 浏览器档案 Cookie 配置
type ProfileConfig struct {
	CookieName string
	Secure     bool
}

// Profile 解析浏览器档案 Cookie，缺失或签名无效时签发新档案
// 档案 ID 决定请求读写哪一份本地存储
func Profile(tokens service.ProfileTokens, config *ProfileConfig) gin.HandlerFunc {
	if config == nil {
		config = &ProfileConfig{}
	}
	if config.CookieName == "" {
		config.CookieName = "ticketapp_profile"
	}

	return func(c *gin.Context) {
		if raw, err := c.Cookie(config.CookieName); err == nil && raw != "" {
			if id, err := tokens.Parse(raw); err == nil {
				c.Set(ProfileKey, id)
				c.Next()
				return
			}
			logger.Debug("档案 Cookie 无效，重新签发", zap.String("path", c.Request.URL.Path))
		}

		id, token, err := tokens.Issue()
		if err != nil {
			logger.Error("签发档案失败", zap.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     config.CookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   config.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(ProfileKey, id)
		c.Next()
	}
}

// ProfileID 当前请求的档案 ID
func ProfileID(c *gin.Context) string {
	return c.GetString(ProfileKey)
}
