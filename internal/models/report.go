package models

import (
	"time"
)

// Report 文件举报，只追加
type Report struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FileID       uint      `gorm:"not null;index" json:"file_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ReportReason *string   `gorm:"type:text" json:"report_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}
