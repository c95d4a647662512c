// Package web 提供页面模板与静态资源的嵌入和服务
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl static/*
var embeddedFS embed.FS

// StaticMode 资源服务模式
type StaticMode string

const (
	// ModeEmbed 嵌入模式，使用 go:embed 嵌入的文件
	ModeEmbed StaticMode = "embed"
	// ModeDisk 磁盘模式，直接读取磁盘文件（支持热更新）
	ModeDisk StaticMode = "disk"
)

// AssetsPrefix 静态资源 URL 前缀
const AssetsPrefix = "/assets/"

// StaticConfig 资源服务配置
type StaticConfig struct {
	// Mode 服务模式：embed 或 disk
	Mode StaticMode
	// DiskPath 磁盘模式下 web 目录路径（相对于工作目录）
	DiskPath string
}

// DefaultConfig 返回默认配置
func DefaultConfig() *StaticConfig {
	return &StaticConfig{
		Mode:     ModeEmbed,
		DiskPath: "./web",
	}
}

// FS 返回包含 templates/ 与 static/ 的文件系统
func FS(config *StaticConfig) fs.FS {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Mode == ModeDisk {
		return os.DirFS(config.DiskPath)
	}
	return embeddedFS
}

// StaticHandler 静态资源处理器
type StaticHandler struct {
	fs http.FileSystem
}

// NewStaticHandler 创建静态资源处理器
func NewStaticHandler(config *StaticConfig) *StaticHandler {
	sub, err := fs.Sub(FS(config), "static")
	if err != nil {
		// 目录不存在时回退到嵌入资源
		sub, _ = fs.Sub(embeddedFS, "static")
	}
	return &StaticHandler{fs: http.FS(sub)}
}

// IsAssetPath 检查路径是否为静态资源路径
func (h *StaticHandler) IsAssetPath(p string) bool {
	return strings.HasPrefix(p, AssetsPrefix)
}

// FileExists 检查资源是否存在
func (h *StaticHandler) FileExists(name string) bool {
	file, err := h.fs.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()

	stat, err := file.Stat()
	return err == nil && !stat.IsDir()
}

// Middleware 返回 Gin 中间件，只处理 /assets/ 下的 GET 和 HEAD 请求
func (h *StaticHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if !h.IsAssetPath(p) {
			c.Next()
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		name := path.Clean("/" + strings.TrimPrefix(p, AssetsPrefix))
		if !h.FileExists(name) {
			// 交给 NoRoute 渲染 404 页面
			c.Next()
			return
		}

		c.FileFromFS(name, h.fs)
		c.Abort()
	}
}
