package models

import (
	"time"
)

// User 钱包用户模型
type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;size:128;not null" json:"wallet_address"`
	RewardPoints  int       `gorm:"not null;default:0" json:"reward_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	Files []File `gorm:"foreignKey:UserID" json:"files,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
