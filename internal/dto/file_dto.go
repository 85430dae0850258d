package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// FlexibleID 兼容数字与字符串两种写法的ID，如 12、"12"、"temp-1"
type FlexibleID string

// UnmarshalJSON 解析数字或字符串
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

// TagRefRequest 标签引用，id 为空或 temp- 前缀表示新标签
type TagRefRequest struct {
	ID  FlexibleID `json:"id"`
	Tag string     `json:"tag" binding:"max=100"`
}

// CreateFileRequest 创建文件请求
type CreateFileRequest struct {
	FilecoinHash string          `json:"filecoin_hash" binding:"required,max=255"`
	FileName     *string         `json:"file_name"`
	FileType     string          `json:"file_type" binding:"required,max=100"`
	FileSize     int64           `json:"file_size" binding:"gte=0"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Description  *string         `json:"description"`
	Network      string          `json:"network" binding:"required,max=50"`
	UploadDate   *time.Time      `json:"upload_date"`
	Tags         []TagRefRequest `json:"tags" binding:"required,min=1,dive"`
}

// UpdateTagsRequest 追加文件标签请求
type UpdateTagsRequest struct {
	Tags []TagRefRequest `json:"tags" binding:"required,min=1,dive"`
}

// ListFilesQuery 文件列表查询参数
type ListFilesQuery struct {
	FileType string `form:"file_type"`
	// Tags 逗号分隔的标签ID
	Tags    string `form:"tags"`
	Q       string `form:"q"`
	OrderBy string `form:"order_by" binding:"omitempty,oneof=upload_date upvotes"`
	Limit   int    `form:"limit" binding:"omitempty,gte=0"`
}

// TagResponse 标签
type TagResponse struct {
	ID  uint   `json:"id"`
	Tag string `json:"tag"`
}

// FileResponse 文件响应
type FileResponse struct {
	ID            uint          `json:"id"`
	FilecoinHash  string        `json:"filecoin_hash"`
	FileName      *string       `json:"file_name,omitempty"`
	FileType      string        `json:"file_type"`
	FileSize      int64         `json:"file_size"`
	ThumbnailURL  *string       `json:"thumbnail_url,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Network       string        `json:"network"`
	UploadDate    string        `json:"upload_date"`
	UserID        uint          `json:"user_id"`
	WalletAddress string        `json:"wallet_address,omitempty"`
	Tags          []TagResponse `json:"tags"`
	Upvotes       int64         `json:"upvotes"`
	Downvotes     int64         `json:"downvotes"`
	NetVotes      int64         `json:"net_votes"`
	CommentCount  *int64        `json:"comment_count,omitempty"`
}

// RewardResponse 打标签奖励
type RewardResponse struct {
	TagFile     int `json:"tag_file"`
	Bonus       int `json:"bonus"`
	TotalPoints int `json:"total_points"`
}

// CreateFileResponse 创建文件响应
type CreateFileResponse struct {
	File        FileResponse    `json:"file"`
	SkippedTags []string        `json:"skipped_tags,omitempty"`
	Reward      *RewardResponse `json:"reward,omitempty"`
	RewardError string          `json:"reward_error,omitempty"`
}

// UpdateTagsResponse 追加标签响应
type UpdateTagsResponse struct {
	Tags        []TagResponse `json:"tags"`
	Linked      []uint        `json:"linked"`
	Created     []uint        `json:"created"`
	SkippedTags []string      `json:"skipped_tags,omitempty"`
}

// BonusPreviewResponse 当前随机奖励
type BonusPreviewResponse struct {
	Round      uint64 `json:"round"`
	Randomness string `json:"randomness"`
	Bonus      int    `json:"bonus"`
	Fallback   bool   `json:"fallback"`
}
