package database

import (
	"fmt"

	"sports-activity-platform/config"
	"sports-activity-platform/internal/model"
	"sports-activity-platform/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// autoMigrateModels 定义需要自动迁移的模型列表
var autoMigrateModels = []any{
	&model.User{},
	&model.Activity{},
	&model.Registration{},
	&model.Comment{},
	// 在这里添加其他模型
}

func Init() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Get().Mysql.Username,
		config.Get().Mysql.Password,
		config.Get().Mysql.Host,
		config.Get().Mysql.Port,
		config.Get().Mysql.DBName,
	)
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true, // 把驱动错误翻译成 gorm.ErrDuplicatedKey 等
	}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	tools.PanicOnErr(err)
	DB = db

	tools.PanicOnErr(DB.AutoMigrate(autoMigrateModels...))
}

// AutoMigrate 对给定的 db 执行模型迁移，测试环境复用同一份模型列表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}
