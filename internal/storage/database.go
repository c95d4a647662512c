package storage

import (
	"context"
	"errors"

	"github.com/pu-ac-cn/ticketapp/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseBackend 基于 gorm 的后端，数据存放在 kv_records 表
type DatabaseBackend struct {
	db *gorm.DB
}

// NewDatabaseBackend 创建数据库后端，调用方负责迁移 model.KVRecord
func NewDatabaseBackend(db *gorm.DB) *DatabaseBackend {
	return &DatabaseBackend{db: db}
}

func (d *DatabaseBackend) Get(ctx context.Context, profile, name string) (string, bool, error) {
	var rec model.KVRecord
	err := d.db.WithContext(ctx).
		Where("profile = ? AND name = ?", profile, name).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Value, true, nil
}

func (d *DatabaseBackend) Set(ctx context.Context, profile, name, value string) error {
	rec := model.KVRecord{Profile: profile, Name: name, Value: value}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

func (d *DatabaseBackend) Delete(ctx context.Context, profile, name string) error {
	return d.db.WithContext(ctx).
		Where("profile = ? AND name = ?", profile, name).
		Delete(&model.KVRecord{}).Error
}

func (d *DatabaseBackend) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
