// Package main 数据库迁移工具，创建 database 存储后端使用的 kv_records 表
package main

import (
	"log"

	"github.com/pu-ac-cn/ticketapp/internal/config"
	"github.com/pu-ac-cn/ticketapp/internal/database"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/spf13/pflag"
)

func main() {
	// 命令行参数
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	pflag.Parse()

	// 加载配置
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()
	log.Printf("数据库连接成功 (%s)", cfg.Database.Driver)

	log.Println("开始执行数据库迁移...")
	if err := database.AutoMigrate(&model.KVRecord{}); err != nil {
		log.Fatalf("迁移失败: %v", err)
	}

	log.Println("数据库迁移完成！")
	log.Println("已创建/更新的表:")
	log.Printf("  - %s (浏览器档案键值记录)", model.KVRecord{}.TableName())
}
