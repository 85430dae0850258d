package models

import (
	"time"
)

// File Filecoin 文件记录
type File struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FilecoinHash string    `gorm:"size:255;not null;index" json:"filecoin_hash"`
	FileName     *string   `gorm:"size:255" json:"file_name,omitempty"`
	FileType     string    `gorm:"size:100;not null;index" json:"file_type"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	ThumbnailURL *string   `gorm:"size:1024" json:"thumbnail_url,omitempty"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Network      string    `gorm:"size:50;not null" json:"network"`
	UploadDate   time.Time `gorm:"not null;index" json:"upload_date"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`

	// 关联
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags []Tag `gorm:"-" json:"tags,omitempty"`
}

// TableName 指定表名
func (File) TableName() string {
	return "files"
}
