package models

import (
	"time"
)

// 积分变动原因
const (
	PointReasonTagFile          = "tag_file"
	PointReasonTagBonus         = "tag_bonus"
	PointReasonUpvoteReceived   = "upvote_received"
	PointReasonDownvoteReceived = "downvote_received"
	PointReasonVoteRevert       = "vote_revert"
)

// PointEvent 积分流水，每次变动追加一条
type PointEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Delta     int       `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"size:32;not null" json:"reason"`
	FileID    *uint     `gorm:"index" json:"file_id,omitempty"`
	ActorID   *uint     `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (PointEvent) TableName() string {
	return "point_events"
}
