package models

import (
	"time"
)

// Comment 文件评论
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FileID    uint      `gorm:"not null;index" json:"file_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
