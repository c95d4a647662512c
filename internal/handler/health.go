package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
	"github.com/pu-ac-cn/ticketapp/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	backend storage.Backend
	driver  string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(backend storage.Backend, driver string) *HealthHandler {
	return &HealthHandler{backend: backend, driver: driver}
}

// Health 检查存储后端连接
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	storageStatus := "ok"
	if err := h.backend.Ping(c.Request.Context()); err != nil {
		storageStatus = "error"
		logError(c, "存储后端不可用", err)
	}

	data := gin.H{
		"status":         "ok",
		"time":           time.Now().Format(time.RFC3339),
		"storage":        h.driver,
		"storage_status": storageStatus,
	}
	if storageStatus != "ok" {
		response.ErrorWithData(c, response.CodeUnavailable, data)
		return
	}
	response.Success(c, data)
}
