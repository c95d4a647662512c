// Package service 登录注册流程
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pu-ac-cn/ticketapp/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// 页面路径
const (
	LandingPath   = "/"
	LoginPath     = "/auth/login"
	SignupPath    = "/auth/signup"
	DashboardPath = "/dashboard"
	TicketsPath   = "/tickets"
)

// PasswordMinLength 密码最短长度（按字符计）
const PasswordMinLength = 6

// 提示消息
const (
	MsgSignedUp      = "Signed up and logged in!"
	MsgLoginSuccess  = "Login successful!"
	MsgLoggedOut     = "Logged out."
	MsgEmailRequired = "Email required"
	MsgPasswordShort = "Password must be 6+ chars"
)

// AuthMode 认证页面模式，只影响文案，不影响逻辑
type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
)

// ModeFromPath 路径以 /signup 结尾为注册，其余为登录
func ModeFromPath(path string) AuthMode {
	if strings.HasSuffix(path, "/signup") {
		return ModeSignup
	}
	return ModeLogin
}

// AuthLabels 页面文案
type AuthLabels struct {
	Title        string
	Submit       string
	SwitchPrompt string
	SwitchText   string
	SwitchHref   string
}

// Labels 返回当前模式的文案
func (m AuthMode) Labels() AuthLabels {
	if m == ModeSignup {
		return AuthLabels{
			Title:        "Sign Up",
			Submit:       "Sign Up",
			SwitchPrompt: "Have an account?",
			SwitchText:   "Login",
			SwitchHref:   LoginPath,
		}
	}
	return AuthLabels{
		Title:        "Login",
		Submit:       "Login",
		SwitchPrompt: "No account?",
		SwitchText:   "Sign up",
		SwitchHref:   SignupPath,
	}
}

// Credentials 表单提交的凭据
type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// TestAccount 内置测试账号
type TestAccount struct {
	Email    string
	Password string
	Name     string
}

// AuthResult 一次提交的处理结果
type AuthResult struct {
	Session     *model.Session
	FieldErrors model.ValidationErrors
	Notices     []string
	Redirect    string
}

// OK 是否通过校验
func (r *AuthResult) OK() bool {
	return len(r.FieldErrors) == 0
}

// AuthService 登录注册流程接口
type AuthService interface {
	// Submit 处理登录或注册表单
	Submit(ctx context.Context, profile string, mode AuthMode, creds Credentials, w CookieWriter) (*AuthResult, error)
	// Logout 登出
	Logout(ctx context.Context, profile string, w CookieWriter) (*AuthResult, error)
}

// AuthServiceConfig 认证流程配置
type AuthServiceConfig struct {
	TestAccount TestAccount
	HashCost    int           // bcrypt 成本，默认 bcrypt.DefaultCost
	NewToken    func() string // 默认 NewSessionToken
}

type authService struct {
	sessions     SessionManager
	account      TestAccount
	passwordHash []byte
	newToken     func() string
}

// NewAuthService 创建认证流程
func NewAuthService(sessions SessionManager, config *AuthServiceConfig) (AuthService, error) {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.HashCost == 0 {
		config.HashCost = bcrypt.DefaultCost
	}
	if config.NewToken == nil {
		config.NewToken = NewSessionToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.TestAccount.Password), config.HashCost)
	if err != nil {
		return nil, fmt.Errorf("生成测试账号密码哈希失败: %w", err)
	}

	return &authService{
		sessions:     sessions,
		account:      config.TestAccount,
		passwordHash: hash,
		newToken:     config.NewToken,
	}, nil
}

// ValidateCredentials 校验凭据，所有字段错误一次性返回
func ValidateCredentials(creds Credentials) model.ValidationErrors {
	errs := model.ValidationErrors{}
	if creds.Email == "" {
		errs["email"] = MsgEmailRequired
	}
	if utf8.RuneCountInString(creds.Password) < PasswordMinLength {
		errs["password"] = MsgPasswordShort
	}
	return errs
}

// Submit 处理表单
// 登录模式下任意邮箱密码组合都会成功，这里没有真实后端可供核对。
func (s *authService) Submit(ctx context.Context, profile string, mode AuthMode, creds Credentials, w CookieWriter) (*AuthResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Password = strings.TrimSpace(creds.Password)

	if errs := ValidateCredentials(creds); len(errs) > 0 {
		return &AuthResult{FieldErrors: errs}, nil
	}

	result := &AuthResult{Redirect: DashboardPath}
	session := &model.Session{
		Email: creds.Email,
		Token: s.newToken(),
		Name:  model.DisplayNameFromEmail(creds.Email),
	}

	switch mode {
	case ModeSignup:
		if s.account.Email != "" && creds.Email == s.account.Email {
			result.Notices = append(result.Notices, fmt.Sprintf(
				"Test user already exists - you can login with %s / %s",
				s.account.Email, s.account.Password,
			))
		}
		result.Notices = append(result.Notices, MsgSignedUp)
	default:
		if s.isTestAccount(creds) {
			session.Name = s.account.Name
		}
		result.Notices = append(result.Notices, MsgLoginSuccess)
	}

	if err := s.sessions.Set(ctx, profile, session, w); err != nil {
		return nil, err
	}
	result.Session = session
	return result, nil
}

func (s *authService) isTestAccount(creds Credentials) bool {
	if s.account.Email == "" || creds.Email != s.account.Email {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(creds.Password)) == nil
}

// Logout 登出并回到首页
func (s *authService) Logout(ctx context.Context, profile string, w CookieWriter) (*AuthResult, error) {
	if err := s.sessions.Clear(ctx, profile, w); err != nil {
		return nil, err
	}
	return &AuthResult{
		Notices:  []string{MsgLoggedOut},
		Redirect: LandingPath,
	}, nil
}
