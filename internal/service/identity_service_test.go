package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/logging"
	"filetag-go/internal/testutil"
	"filetag-go/internal/utils"
)

func newIdentityService(t *testing.T) (*IdentityService, *utils.JWTManager) {
	t.Helper()
	jwtManager := utils.NewJWTManager("test-secret", "HS256", time.Hour)
	return NewIdentityService(testutil.NewStore(t), jwtManager, logging.Discard()), jwtManager
}

func TestResolveCreatesUserOnce(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, "0xABC", first.WalletAddress)
	assert.Equal(t, 0, first.RewardPoints)

	second, err := svc.Resolve(ctx, " 0xABC ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := svc.store.Users.CountByWalletAddress(ctx, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestResolveChecksumsHexAddresses(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	lower, err := svc.Resolve(ctx, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	mixed, err := svc.Resolve(ctx, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	assert.Equal(t, lower.ID, mixed.ID)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", lower.WalletAddress)
}

func TestResolveRequiresAddress(t *testing.T) {
	svc, _ := newIdentityService(t)

	_, err := svc.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrWalletRequired)
}

func TestResolveConcurrent(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			user, err := svc.Resolve(ctx, "0xCONCURRENT")
			errs[i] = err
			if user != nil {
				ids[i] = user.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	count, err := svc.store.Users.CountByWalletAddress(ctx, "0xCONCURRENT")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConnectIssuesSessionToken(t *testing.T) {
	svc, jwtManager := newIdentityService(t)

	result, err := svc.Connect(context.Background(), "0xABC")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	claims, err := jwtManager.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "0xABC", claims.WalletAddress)
}

func TestMe(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	_, err := svc.Me(ctx, nil)
	assert.ErrorIs(t, err, ErrWalletRequired)

	user, err := svc.Resolve(ctx, "0xME")
	require.NoError(t, err)

	me, err := svc.Me(ctx, &Session{UserID: user.ID, WalletAddress: user.WalletAddress})
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	_, err = svc.Me(ctx, &Session{UserID: user.ID + 100, WalletAddress: "0xGONE"})
	assert.ErrorIs(t, err, ErrNotFound)
}
