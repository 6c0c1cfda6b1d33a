package test

import (
	"path/filepath"
	"sync"
	"testing"

	"sports-activity-platform/config"
	"sports-activity-platform/internal/global/database"
	"sports-activity-platform/internal/module"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var initOnce sync.Once

// Init 初始化测试环境：配置、各模块日志器，并为当前测试创建独立数据库
func Init(t *testing.T) {
	initOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		config.Init()
		for _, m := range module.Modules {
			m.Init()
		}
	})
	NewDB(t)
}

// NewDB 创建基于临时文件的 sqlite 数据库并替换全局连接
func NewDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	})
	require.NoError(t, err)

	// sqlite 单写者，串行化连接避免并发测试里的锁冲突
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db
	return db
}
