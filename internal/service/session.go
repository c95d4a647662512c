// Package service 业务逻辑层：会话、登录注册流程、工单与路由守卫
package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
)

// ErrNilSession 写入空会话
var ErrNilSession = errors.New("会话为空")

// DefaultSessionCookie 会话镜像 Cookie 名，服务端路由守卫依赖该名称
const DefaultSessionCookie = "ticketapp_session"

// CookieWriter 会话 Cookie 的写入端
type CookieWriter interface {
	SetCookie(cookie *http.Cookie)
}

// CookieWriterFunc 函数适配器
type CookieWriterFunc func(cookie *http.Cookie)

// SetCookie 实现 CookieWriter
func (f CookieWriterFunc) SetCookie(cookie *http.Cookie) {
	f(cookie)
}

// SessionManager 会话管理接口
// 会话只存在于档案的本地存储中，Token 不做任何真实性校验。
type SessionManager interface {
	// Get 读取会话，不存在或数据损坏时返回 nil
	Get(ctx context.Context, profile string) (*model.Session, error)
	// Set 保存会话并写入镜像 Cookie
	Set(ctx context.Context, profile string, session *model.Session, w CookieWriter) error
	// Clear 删除会话并让 Cookie 立即过期
	Clear(ctx context.Context, profile string, w CookieWriter) error
	// IsLoggedIn 当且仅当 Get 返回非 nil
	IsLoggedIn(ctx context.Context, profile string) (bool, error)
	// CookieName 镜像 Cookie 名
	CookieName() string
}

// SessionConfig 会话配置
type SessionConfig struct {
	CookieName string           // 默认 ticketapp_session
	CookieTTL  time.Duration    // 默认 1 天
	Now        func() time.Time // 测试用时钟
}

type sessionManager struct {
	store  *storage.Adapter
	config *SessionConfig
}

// NewSessionManager 创建会话管理器
func NewSessionManager(store *storage.Adapter, config *SessionConfig) SessionManager {
	if config == nil {
		config = &SessionConfig{}
	}
	if config.CookieName == "" {
		config.CookieName = DefaultSessionCookie
	}
	if config.CookieTTL == 0 {
		config.CookieTTL = 24 * time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &sessionManager{store: store, config: config}
}

// NewSessionToken 生成随机会话 Token，没有任何服务端含义
func NewSessionToken() string {
	return "token-" + uuid.NewString()
}

func (m *sessionManager) CookieName() string {
	return m.config.CookieName
}

// Get 读取会话
func (m *sessionManager) Get(ctx context.Context, profile string) (*model.Session, error) {
	var session model.Session
	found, err := m.store.Load(ctx, profile, model.SessionKey, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

// Set 保存会话
// 存储与 Cookie 不在同一事务内，Cookie 写入是尽力而为。
func (m *sessionManager) Set(ctx context.Context, profile string, session *model.Session, w CookieWriter) error {
	if session == nil {
		return ErrNilSession
	}
	if err := m.store.Save(ctx, profile, model.SessionKey, session); err != nil {
		return err
	}

	if w != nil {
		w.SetCookie(&http.Cookie{
			Name:    m.config.CookieName,
			Value:   url.QueryEscape(session.Token),
			Path:    "/",
			Expires: m.config.Now().Add(m.config.CookieTTL),
		})
	}
	return nil
}

// Clear 删除会话
func (m *sessionManager) Clear(ctx context.Context, profile string, w CookieWriter) error {
	if err := m.store.Remove(ctx, profile, model.SessionKey); err != nil {
		return err
	}

	if w != nil {
		w.SetCookie(&http.Cookie{
			Name:    m.config.CookieName,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0).UTC(),
			MaxAge:  -1,
		})
	}
	return nil
}

// IsLoggedIn 是否已登录
func (m *sessionManager) IsLoggedIn(ctx context.Context, profile string) (bool, error) {
	session, err := m.Get(ctx, profile)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}
