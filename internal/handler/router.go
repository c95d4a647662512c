package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/middleware"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
	"github.com/pu-ac-cn/ticketapp/internal/view"
	"github.com/pu-ac-cn/ticketapp/web"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	Renderer      *view.Renderer
	Static        *web.StaticHandler
	Profiles      service.ProfileTokens
	ProfileCookie string
	SecureCookies bool
	Sessions      service.SessionManager
	Auth          service.AuthService
	Tickets       service.TicketService
	Guard         service.RouteGuard
	Backend       storage.Backend
	StorageDriver string
}

// NewRouter 创建路由
func NewRouter(cfg *RouterConfig) *gin.Engine {
	pages := NewPageHandler(cfg.Sessions, cfg.Auth, cfg.Tickets, cfg.Guard)
	api := NewAPIHandler(cfg.Sessions, cfg.Auth, cfg.Tickets, cfg.Renderer)
	health := NewHealthHandler(cfg.Backend, cfg.StorageDriver)

	router := gin.New()
	router.SetHTMLTemplate(cfg.Renderer.Template())

	// 全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	if cfg.Static != nil {
		router.Use(cfg.Static.Middleware())
	}

	router.GET("/health", health.Health)

	profile := middleware.Profile(cfg.Profiles, &middleware.ProfileConfig{
		CookieName: cfg.ProfileCookie,
		Secure:     cfg.SecureCookies,
	})

	// 页面路由，服务端守卫在渲染前按 Cookie 跳转
	site := router.Group("")
	site.Use(profile)
	site.Use(middleware.SessionGuard(cfg.Sessions.CookieName(), service.ProtectedPaths, service.LoginPath))
	{
		site.GET(service.LandingPath, pages.Landing)
		site.GET("/go", pages.Navigate)

		site.GET(service.LoginPath, pages.AuthPage)
		site.GET(service.SignupPath, pages.AuthPage)
		site.POST(service.LoginPath, pages.AuthSubmit)
		site.POST(service.SignupPath, pages.AuthSubmit)
		site.POST("/auth/logout", pages.Logout)

		site.GET(service.DashboardPath, pages.Dashboard)

		site.GET(service.TicketsPath, pages.Tickets)
		site.POST(service.TicketsPath, pages.CreateTicket)
		site.GET("/tickets/:id/edit", pages.EditTicket)
		site.POST("/tickets/:id", pages.UpdateTicket)
		site.POST("/tickets/:id/delete", pages.DeleteTicket)
	}

	// API 路由组
	v1 := router.Group("/api/v1")
	v1.Use(profile)
	{
		v1.GET("/session", api.Session)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", api.Submit)
			auth.POST("/signup", api.Submit)
			auth.POST("/logout", api.Logout)
		}

		// 需要会话的路由
		authRequired := v1.Group("")
		authRequired.Use(api.RequireSession())
		{
			authRequired.GET("/dashboard", api.Dashboard)
			authRequired.GET("/tickets", api.ListTickets)
			authRequired.POST("/tickets", api.CreateTicket)
			authRequired.GET("/tickets/:id", api.GetTicket)
			authRequired.PUT("/tickets/:id", api.UpdateTicket)
			authRequired.DELETE("/tickets/:id", api.DeleteTicket)
		}
	}

	router.NoRoute(profile, func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			api.NotFound(c)
			return
		}
		pages.NotFound(c)
	})

	return router
}
