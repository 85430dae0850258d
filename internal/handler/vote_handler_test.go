package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/dto"
	"filetag-go/internal/logging"
	"filetag-go/internal/service"
)

// racingLedger 读取票数时模拟另一个请求刚好提交了投票
type racingLedger struct {
	hub   *service.VoteHub
	stale service.Tally
	fresh service.Tally
}

func (l *racingLedger) CastVote(ctx context.Context, session *service.Session, fileID uint, voteType int) (*service.VoteResult, error) {
	return nil, service.ErrConflict
}

func (l *racingLedger) Tally(ctx context.Context, fileID uint) (service.Tally, error) {
	if fileID != l.stale.FileID {
		return service.Tally{}, service.ErrNotFound
	}
	l.hub.Publish(l.fresh)
	return l.stale, nil
}

func (l *racingLedger) MyVote(ctx context.Context, session *service.Session, fileID uint) (int, error) {
	return 0, nil
}

func newLiveServer(t *testing.T, ledger VoteService, hub *service.VoteHub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewVoteHandler(ledger, hub, logging.Discard())
	r := gin.New()
	r.GET("/files/:id/live", h.Live)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLiveDeliversVoteCommittedDuringSubscribe(t *testing.T) {
	hub := service.NewVoteHub()
	ledger := &racingLedger{
		hub:   hub,
		stale: service.Tally{FileID: 7},
		fresh: service.Tally{FileID: 7, Upvotes: 1, Net: 1},
	}
	srv := newLiveServer(t, ledger, hub)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/files/7/live", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial, next dto.LiveMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Zero(t, initial.Data.Net)

	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, int64(1), next.Data.Net)
	assert.Equal(t, uint(7), next.Data.FileID)
}

func TestLiveUnknownFile(t *testing.T) {
	hub := service.NewVoteHub()
	srv := newLiveServer(t, &racingLedger{hub: hub, stale: service.Tally{FileID: 7}}, hub)

	resp, err := http.Get(srv.URL + "/files/8/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Eventually(t, func() bool { return hub.SubscriberCount(8) == 0 }, time.Second, 10*time.Millisecond)
}
