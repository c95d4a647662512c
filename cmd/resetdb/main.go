package main

import (
	"fmt"
	"log"

	"github.com/pu-ac-cn/ticketapp/internal/config"
	"github.com/pu-ac-cn/ticketapp/internal/database"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/spf13/pflag"
)

// 清空 database 存储后端的所有档案数据（会话与工单）：
// - 删除 kv_records 表，然后可选地重建。
// - 不会删除数据库本身或其它表。
// 用法：
//   go run ./cmd/resetdb --force
// 可选参数：
//   --recreate  重建表（默认 true）
//   --force     必须为 true 才会执行（安全开关）
func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	recreate := pflag.Bool("recreate", true, "是否在清空后重建表")
	force := pflag.Bool("force", false, "确认执行清空操作")
	pflag.Parse()

	if !*force {
		log.Fatal("为避免误操作，请加上 --force 参数：go run ./cmd/resetdb --force")
	}

	// 加载配置并连接数据库
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
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()

	m := database.GetDB().Migrator()
	table := &model.KVRecord{}

	fmt.Println("开始清空档案数据...")
	if m.HasTable(table) {
		if err := m.DropTable(table); err != nil {
			log.Fatalf("删除表失败: %v", err)
		}
		fmt.Printf("已删除表: %s\n", table.TableName())
	}

	if *recreate {
		if err := m.AutoMigrate(table); err != nil {
			log.Fatalf("创建表失败: %v", err)
		}
		fmt.Printf("已重建表: %s\n", table.TableName())
	}

	fmt.Println("完成")
}
