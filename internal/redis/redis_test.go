package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pu-ac-cn/ticketapp/internal/config"
)

// TestInit 测试 Redis 初始化
func TestInit(t *testing.T) {
	mr := miniredis.RunT(t)

	if err := Init(&config.RedisConfig{Addr: mr.Addr()}); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	defer Close()

	// 验证客户端已初始化
	if GetClient() == nil {
		t.Error("GetClient() 返回 nil")
	}
	if err := Ping(context.Background()); err != nil {
		t.Errorf("Ping 失败: %v", err)
	}
}

// TestInitUnreachable 测试连接不可达的 Redis
func TestInitUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	err := Init(&config.RedisConfig{Addr: addr})
	if err == nil {
		t.Error("期望返回错误，但没有")
	}
	Close()
}

// TestPingNotInitialized 测试未初始化时的 Ping
func TestPingNotInitialized(t *testing.T) {
	client = nil

	if err := Ping(context.Background()); err == nil {
		t.Error("期望返回错误，但没有")
	}
}

// TestCloseNil 测试关闭未初始化的连接
func TestCloseNil(t *testing.T) {
	client = nil

	if err := Close(); err != nil {
		t.Errorf("Close nil 客户端应该不报错: %v", err)
	}
}
