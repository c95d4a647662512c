package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/config"
	"github.com/pu-ac-cn/ticketapp/internal/handler"
	"github.com/pu-ac-cn/ticketapp/internal/middleware"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
	"github.com/pu-ac-cn/ticketapp/internal/view"
	"github.com/pu-ac-cn/ticketapp/web"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	pflag.Parse()

	// 加载配置
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		middleware.GetLogger().Fatal("加载配置失败", zap.Error(err))
	}

	logger, err := middleware.NewLogger(cfg.Server.Mode)
	if err != nil {
		middleware.GetLogger().Fatal("初始化日志失败", zap.Error(err))
	}
	middleware.SetLogger(logger)
	defer logger.Sync()

	// 初始化存储后端
	backend, closeBackend, err := storage.Open(cfg)
	if err != nil {
		logger.Fatal("初始化存储失败", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeBackend()
	logger.Info("存储后端就绪", zap.String("driver", cfg.Storage.Driver))

	store := storage.NewAdapter(backend)

	// 初始化 Service
	profiles, err := service.NewProfileTokens(&service.ProfileTokensConfig{
		Secret: []byte(cfg.Session.ProfileSecret),
		TTL:    cfg.Session.ProfileTTL,
	})
	if err != nil {
		logger.Fatal("初始化档案令牌失败", zap.Error(err))
	}
	if cfg.Session.ProfileSecret == "" {
		logger.Warn("未配置 session.profile_secret，重启后浏览器档案将失效")
	}

	sessions := service.NewSessionManager(store, &service.SessionConfig{
		CookieName: cfg.Session.CookieName,
		CookieTTL:  cfg.Session.CookieTTL,
	})
	authService, err := service.NewAuthService(sessions, &service.AuthServiceConfig{
		TestAccount: service.TestAccount{
			Email:    cfg.TestAccount.Email,
			Password: cfg.TestAccount.Password,
			Name:     cfg.TestAccount.Name,
		},
	})
	if err != nil {
		logger.Fatal("初始化认证服务失败", zap.Error(err))
	}
	ticketService := service.NewTicketService(store, nil)
	guard := service.NewRouteGuard(sessions)

	// 页面模板与静态资源
	webConfig := &web.StaticConfig{Mode: web.StaticMode(cfg.Server.WebMode), DiskPath: cfg.Server.WebDir}
	renderer, err := view.New(web.FS(webConfig))
	if err != nil {
		logger.Fatal("加载页面模板失败", zap.Error(err))
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(&handler.RouterConfig{
		Renderer:      renderer,
		Static:        web.NewStaticHandler(webConfig),
		Profiles:      profiles,
		ProfileCookie: cfg.Session.ProfileCookie,
		SecureCookies: cfg.Server.Mode == "release",
		Sessions:      sessions,
		Auth:          authService,
		Tickets:       ticketService,
		Guard:         guard,
		Backend:       backend,
		StorageDriver: cfg.Storage.Driver,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("服务器启动", zap.String("addr", cfg.Server.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
	}
	logger.Info("服务器已关闭")
}
