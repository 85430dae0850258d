package models

import (
	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

var migrations = []*gormigrate.Migration{
	// 基础表
	{
		ID: "202410010001",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&User{}, &File{}, &Tag{}, &FileTag{}, &Vote{}, &Comment{}, &Report{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("reports", "comments", "votes", "file_tags", "tags", "files", "users")
		},
	},
	// 积分流水
	{
		ID: "202410080001",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&PointEvent{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("point_events")
		},
	},
	// 标签大小写无关查询索引
	{
		ID: "202410150001",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_tags_tag_lower ON tags (LOWER(tag))").Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP INDEX IF EXISTS idx_tags_tag_lower").Error
		},
	},
}

// Migrate 执行全部未执行的迁移
func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations).Migrate()
}

// RollbackLast 回滚最后一次迁移
func RollbackLast(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations).RollbackLast()
}
