package dto

// VoteRequest 投票请求
type VoteRequest struct {
	VoteType int `json:"vote_type" binding:"required,oneof=-1 1"`
}

// TallyResponse 票数统计
type TallyResponse struct {
	FileID    uint  `json:"file_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Net       int64 `json:"net"`
	// MyVote 仅在携带会话时返回，0 表示未投票
	MyVote *int `json:"my_vote,omitempty"`
}

// VoteResponse 投票响应
type VoteResponse struct {
	FileID      uint          `json:"file_id"`
	VoteType    int           `json:"vote_type"`
	Transition  string        `json:"transition"`
	OwnerPoints int           `json:"owner_points"`
	Tally       TallyResponse `json:"tally"`
}

// LiveMessage 实时票数推送
type LiveMessage struct {
	Type string        `json:"type"`
	Data TallyResponse `json:"data"`
}
