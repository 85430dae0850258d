// Package testutil 测试用的数据库与配置
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"filetag-go/internal/config"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

// NewDB 每个测试独立的内存 SQLite 数据库，已执行迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := models.Open(sqlite.Open(dsn), 1, 1)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore 基于 NewDB 的 Store
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t))
}

// Rewards 默认积分规则
func Rewards() config.RewardsConfig {
	return config.RewardsConfig{
		TagFile:          10,
		UpvoteReceived:   2,
		DownvoteReceived: -1,
	}
}

// CreateUser 直接写入用户
func CreateUser(t *testing.T, store *repository.Store, address string) *models.User {
	t.Helper()
	user := &models.User{WalletAddress: address}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}
