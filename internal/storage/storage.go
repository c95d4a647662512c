// Package storage 模拟浏览器本地存储：按浏览器档案（Profile）隔离的键值记录，
// 记录内容为 JSON 文本。
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedDriver 不支持的存储驱动
var ErrUnsupportedDriver = errors.New("不支持的存储驱动")

// Backend 键值存储后端
// 实现需支持并发调用；同一档案下的读写不做事务保证，后写覆盖先写。
type Backend interface {
	// Get 读取原始文本，记录不存在时 ok 为 false
	Get(ctx context.Context, profile, name string) (value string, ok bool, err error)
	// Set 写入原始文本
	Set(ctx context.Context, profile, name, value string) error
	// Delete 删除记录，不存在时不报错
	Delete(ctx context.Context, profile, name string) error
	// Ping 检查后端可用性
	Ping(ctx context.Context) error
}

// Adapter 在 Backend 之上做 JSON 编解码
type Adapter struct {
	backend Backend
}

// NewAdapter 创建存储适配器
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Backend 返回底层后端
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load 读取并解码记录到 dst，dst 应为新分配的零值。
// 记录不存在、为空、为 null 或无法解码时都视为不存在，返回 found=false 且不报错；
// 只有后端读取失败才返回错误。
func (a *Adapter) Load(ctx context.Context, profile, name string, dst any) (bool, error) {
	raw, ok, err := a.backend.Get(ctx, profile, name)
	if err != nil {
		return false, fmt.Errorf("读取记录 %s 失败: %w", name, err)
	}
	if !ok {
		return false, nil
	}

	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// Exists 记录是否存在且非空，不关心内容能否解码
func (a *Adapter) Exists(ctx context.Context, profile, name string) (bool, error) {
	raw, ok, err := a.backend.Get(ctx, profile, name)
	if err != nil {
		return false, fmt.Errorf("读取记录 %s 失败: %w", name, err)
	}
	return ok && raw != "", nil
}

// Save 编码并写入记录
func (a *Adapter) Save(ctx context.Context, profile, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化记录 %s 失败: %w", name, err)
	}
	if err := a.backend.Set(ctx, profile, name, string(data)); err != nil {
		return fmt.Errorf("写入记录 %s 失败: %w", name, err)
	}
	return nil
}

// Remove 删除记录
func (a *Adapter) Remove(ctx context.Context, profile, name string) error {
	if err := a.backend.Delete(ctx, profile, name); err != nil {
		return fmt.Errorf("删除记录 %s 失败: %w", name, err)
	}
	return nil
}
