package service

import (
	"context"

	"filetag-go/pkg/drand"
)

// BonusSource 奖励积分来源，返回 [0,100) 且从不失败
type BonusSource interface {
	Bonus(ctx context.Context) int
}

// FixedBonus 固定奖励积分
type FixedBonus int

// Bonus 返回固定值
func (b FixedBonus) Bonus(ctx context.Context) int {
	return int(b)
}

// BonusPreview 当前信标对应的奖励积分
type BonusPreview struct {
	Round      uint64 `json:"round"`
	Randomness string `json:"randomness"`
	Bonus      int    `json:"bonus"`
	// Fallback 为 true 表示信标不可用，使用空随机值计算
	Fallback bool `json:"fallback"`
}

// BonusService 随机奖励服务
type BonusService struct {
	client *drand.Client
}

// NewBonusService 创建随机奖励服务
func NewBonusService(client *drand.Client) *BonusService {
	return &BonusService{client: client}
}

// Bonus 当前奖励积分
func (s *BonusService) Bonus(ctx context.Context) int {
	return s.client.Bonus(ctx)
}

// Preview 查看当前信标与奖励积分
func (s *BonusService) Preview(ctx context.Context) BonusPreview {
	beacon, err := s.client.Latest(ctx)
	if err != nil {
		return BonusPreview{Bonus: drand.BonusFromRandomness(""), Fallback: true}
	}
	return BonusPreview{
		Round:      beacon.Round,
		Randomness: beacon.Randomness,
		Bonus:      drand.BonusFromRandomness(beacon.Randomness),
	}
}
