package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"filetag-go/internal/logging"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/internal/testutil"
	"filetag-go/pkg/limiter"
)

// fixture 测试用的服务集合
type fixture struct {
	store  *repository.Store
	points *PointsLedger
	tags   *TagReconciler
	votes  *VoteLedger
	files  *FileService
	hub    *VoteHub
	guard  *limiter.LocalLimiter
	bonus  FixedBonus
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logging.Discard()
	store := testutil.NewStore(t)
	points := NewPointsLedger(store, logger)
	tags := NewTagReconciler(store, logger)
	hub := NewVoteHub()
	guard := limiter.NewLocalLimiter(1)
	bonus := FixedBonus(7)

	return &fixture{
		store:  store,
		points: points,
		tags:   tags,
		votes:  NewVoteLedger(store, points, guard, hub, testutil.Rewards(), logger),
		files:  NewFileService(store, tags, points, bonus, testutil.Rewards(), logger),
		hub:    hub,
		guard:  guard,
		bonus:  bonus,
		ctx:    context.Background(),
	}
}

// session 创建用户并返回其会话
func (f *fixture) session(t *testing.T, address string) *Session {
	t.Helper()
	user := testutil.CreateUser(t, f.store, address)
	return &Session{UserID: user.ID, WalletAddress: user.WalletAddress}
}

// createFile 直接写入文件，不发放奖励
func (f *fixture) createFile(t *testing.T, owner *Session) *models.File {
	t.Helper()
	file := &models.File{
		FilecoinHash: "bafy-test",
		FileType:     "image",
		FileSize:     1024,
		Network:      "mainnet",
		UserID:       owner.UserID,
	}
	require.NoError(t, f.store.Files.Create(f.ctx, file))
	return file
}

func (f *fixture) userPoints(t *testing.T, userID uint) int {
	t.Helper()
	user, err := f.store.Users.GetByID(f.ctx, userID)
	require.NoError(t, err)
	return user.RewardPoints
}
