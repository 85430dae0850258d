package dto

// ConnectWalletRequest 连接钱包请求
type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,wallet"`
}

// ConnectWalletResponse 连接钱包响应
type ConnectWalletResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID            uint   `json:"id"`
	WalletAddress string `json:"wallet_address"`
	RewardPoints  int    `json:"reward_points"`
	CreatedAt     string `json:"created_at"`
}

// PointEventResponse 积分流水
type PointEventResponse struct {
	ID        uint   `json:"id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	FileID    *uint  `json:"file_id,omitempty"`
	ActorID   *uint  `json:"actor_id,omitempty"`
	CreatedAt string `json:"created_at"`
}
