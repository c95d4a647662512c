package storage

import (
	"fmt"

	"github.com/pu-ac-cn/ticketapp/internal/config"
	"github.com/pu-ac-cn/ticketapp/internal/database"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/redis"
)

// Open 按配置初始化存储后端，返回的 close 用于释放连接
func Open(cfg *config.Config) (Backend, func() error, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return NewMemoryBackend(), func() error { return nil }, nil

	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			return nil, nil, err
		}
		return NewRedisBackend(redis.GetClient(), cfg.Storage.KeyPrefix), redis.Close, nil

	case "database":
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(&model.KVRecord{}); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("迁移 kv_records 失败: %w", err)
		}
		return NewDatabaseBackend(database.GetDB()), database.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Storage.Driver)
	}
}
