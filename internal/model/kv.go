package model

import "time"

// KVRecord database 存储后端的键值记录
// 一个浏览器档案（Profile）下每个记录名一行
type KVRecord struct {
	Profile   string    `gorm:"type:varchar(64);primaryKey" json:"profile"`
	Name      string    `gorm:"type:varchar(64);primaryKey" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (KVRecord) TableName() string {
	return "kv_records"
}
