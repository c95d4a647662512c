package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 档案令牌相关错误
var (
	ErrInvalidToken = errors.New("无效的档案令牌")
	ErrTokenExpired = errors.New("档案令牌已过期")
)

const profileIssuer = "ticketapp"

// ProfileClaims 档案令牌声明，Subject 为档案 ID
type ProfileClaims struct {
	jwt.RegisteredClaims
}

// ProfileTokens 签发与解析档案令牌。
// 档案 ID 决定本地存储的作用域，相当于原先的一个浏览器档案；令牌只防止随意伪造
// 别人的档案 ID，不代表登录状态。
type ProfileTokens interface {
	// Issue 生成新的档案 ID 与令牌
	Issue() (profileID, token string, err error)
	// Parse 解析令牌，返回档案 ID
	Parse(token string) (string, error)
	// TTL 令牌有效期
	TTL() time.Duration
}

// ProfileTokensConfig 档案令牌配置
type ProfileTokensConfig struct {
	Secret []byte        // 为空时随机生成，重启后旧档案失效
	TTL    time.Duration // 默认 365 天
}

type profileTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewProfileTokens 创建档案令牌服务
func NewProfileTokens(config *ProfileTokensConfig) (ProfileTokens, error) {
	if config == nil {
		config = &ProfileTokensConfig{}
	}
	secret := config.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("生成档案密钥失败: %w", err)
		}
	}
	ttl := config.TTL
	if ttl == 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &profileTokens{secret: secret, ttl: ttl}, nil
}

func (p *profileTokens) TTL() time.Duration {
	return p.ttl
}

func (p *profileTokens) Issue() (string, string, error) {
	id := uuid.NewString()
	now := time.Now()

	claims := ProfileClaims{jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    profileIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", "", fmt.Errorf("签发档案令牌失败: %w", err)
	}
	return id, token, nil
}

func (p *profileTokens) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ProfileClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithIssuer(profileIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*ProfileClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
