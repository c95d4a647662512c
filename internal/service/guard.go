package service

import (
	"context"
	"strings"
)

// 路由守卫提示
const (
	MsgSessionExpired = "Your session has expired - please log in again."
	MsgUnauthorized   = "Unauthorized - please log in."
	MsgLoginRequired  = "Please log in to access that page."
)

// ProtectedPaths 需要登录的页面
var ProtectedPaths = []string{DashboardPath, TicketsPath}

// GuardDecision 守卫判定结果
type GuardDecision struct {
	Allowed  bool
	Redirect string
	Notice   string
}

// RouteGuard 页面侧路由守卫
// 只是界面跳转，不是权限边界：存储中的工单不受会话保护。
type RouteGuard interface {
	// Activate 页面激活时检查会话
	Activate(ctx context.Context, profile, path string) (*GuardDecision, error)
	// Navigate 点击受保护链接时检查会话
	Navigate(ctx context.Context, profile, target string) (*GuardDecision, error)
}

type routeGuard struct {
	sessions SessionManager
}

// NewRouteGuard 创建路由守卫
func NewRouteGuard(sessions SessionManager) RouteGuard {
	return &routeGuard{sessions: sessions}
}

// IsProtected 路径是否属于受保护页面（包括其子路径）
func IsProtected(path string) bool {
	for _, p := range ProtectedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func (g *routeGuard) Activate(ctx context.Context, profile, path string) (*GuardDecision, error) {
	if !IsProtected(path) {
		return &GuardDecision{Allowed: true}, nil
	}

	ok, err := g.sessions.IsLoggedIn(ctx, profile)
	if err != nil {
		return nil, err
	}
	if ok {
		return &GuardDecision{Allowed: true}, nil
	}

	notice := MsgUnauthorized
	if path == DashboardPath {
		notice = MsgSessionExpired
	}
	return &GuardDecision{Redirect: LoginPath, Notice: notice}, nil
}

func (g *routeGuard) Navigate(ctx context.Context, profile, target string) (*GuardDecision, error) {
	if IsProtected(target) {
		ok, err := g.sessions.IsLoggedIn(ctx, profile)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &GuardDecision{Redirect: LoginPath, Notice: MsgLoginRequired}, nil
		}
	}
	return &GuardDecision{Allowed: true, Redirect: target}, nil
}
