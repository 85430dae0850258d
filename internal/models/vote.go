package models

import (
	"time"
)

// 投票方向
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote 投票，(file_id, user_id) 唯一
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FileID    uint      `gorm:"not null;uniqueIndex:idx_votes_file_user" json:"file_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_file_user;index" json:"user_id"`
	VoteType  int       `gorm:"not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Vote) TableName() string {
	return "votes"
}
