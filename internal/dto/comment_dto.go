package dto

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CommentResponse 评论
type CommentResponse struct {
	ID            uint   `json:"id"`
	FileID        uint   `json:"file_id"`
	UserID        uint   `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"created_at"`
}

// CreateReportRequest 举报请求
type CreateReportRequest struct {
	ReportReason string `json:"report_reason"`
}

// ReportResponse 举报记录
type ReportResponse struct {
	ID           uint    `json:"id"`
	FileID       uint    `json:"file_id"`
	UserID       uint    `json:"user_id"`
	ReportReason *string `json:"report_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
