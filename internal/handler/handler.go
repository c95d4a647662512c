// Package handler HTTP 处理器：页面、JSON API 与健康检查
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/middleware"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"go.uber.org/zap"
)

// NoticeCookie 一次性提示 Cookie，跳转后的页面读取并清除
const NoticeCookie = "ticketapp_notice"

// cookieWriter 把会话镜像 Cookie 写入响应
func cookieWriter(c *gin.Context) service.CookieWriter {
	return service.CookieWriterFunc(func(cookie *http.Cookie) {
		http.SetCookie(c.Writer, cookie)
	})
}

// setNotices 保存提示，下一次页面渲染时展示
func setNotices(c *gin.Context, notices ...string) {
	var kept []string
	for _, n := range notices {
		if n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    url.QueryEscape(strings.Join(kept, "\n")),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeNotices 读取并清除提示
func takeNotices(c *gin.Context) []string {
	raw, err := c.Cookie(NoticeCookie)
	if err != nil || raw == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	// c.Cookie 已经做过一次解码
	return strings.Split(raw, "\n")
}

// logError 记录错误并挂到 gin 上下文，由日志中间件统一输出
func logError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	middleware.GetLogger().Error(msg,
		zap.Error(err),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("profile", middleware.ProfileID(c)),
		zap.String("path", c.Request.URL.Path),
	)
}

// safeTarget 只允许站内路径，防止 /go 被用作开放跳转
func safeTarget(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return service.LandingPath
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return service.LandingPath
	}
	return u.Path
}
