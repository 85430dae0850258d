package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/config"
	"filetag-go/internal/dto"
	"filetag-go/internal/logging"
	"filetag-go/internal/service"
	"filetag-go/internal/testutil"
	"filetag-go/internal/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{InternalAPIKey: "internal-secret"},
		JWT:     config.JWTConfig{SecretKey: "test-secret", Algorithm: "HS256", ExpireMinutes: 60},
		Rewards: testutil.Rewards(),
		Drand:   config.DrandConfig{BaseURL: "http://127.0.0.1:1"},
	}

	return SetupRouter(Options{
		Config:     cfg,
		JWTManager: utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration()),
		Logger:     logging.Discard(),
		DB:         testutil.NewDB(t),
		Bonus:      service.FixedBonus(5),
	})
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func connect(t *testing.T, r http.Handler, address string) dto.ConnectWalletResponse {
	t.Helper()
	code, env := doJSON(t, r, http.MethodPost, "/api/wallet/connect", "", gin.H{"wallet_address": address})
	require.Equal(t, http.StatusOK, code, env.Message)

	var resp dto.ConnectWalletResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func createFile(t *testing.T, r http.Handler, token string, tags ...string) dto.CreateFileResponse {
	t.Helper()
	refs := make([]gin.H, 0, len(tags))
	for i, tag := range tags {
		refs = append(refs, gin.H{"id": fmt.Sprintf("temp-%d", i), "tag": tag})
	}
	code, env := doJSON(t, r, http.MethodPost, "/api/files", token, gin.H{
		"filecoin_hash": "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		"file_name":     "demo.png",
		"file_type":     "image",
		"file_size":     1024,
		"network":       "calibration",
		"tags":          refs,
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var resp dto.CreateFileResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func me(t *testing.T, r http.Handler, token string) dto.UserInfo {
	t.Helper()
	code, env := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var user dto.UserInfo
	require.NoError(t, json.Unmarshal(env.Data, &user))
	return user
}

func vote(t *testing.T, r http.Handler, token string, fileID uint, voteType int) dto.VoteResponse {
	t.Helper()
	code, env := doJSON(t, r, http.MethodPost, fileURL(fileID, "/vote"), token, gin.H{"vote_type": voteType})
	require.Equal(t, http.StatusOK, code, env.Message)

	var resp dto.VoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func fileURL(id uint, suffix string) string {
	return fmt.Sprintf("/api/files/%d%s", id, suffix)
}

func TestTagAndVoteScenario(t *testing.T) {
	r := newTestRouter(t)

	owner := connect(t, r, "0xABC")
	assert.Equal(t, "bearer", owner.TokenType)
	assert.Equal(t, "0xABC", owner.User.WalletAddress)
	assert.Zero(t, owner.User.RewardPoints)

	// 同一钱包再次连接得到同一用户
	again := connect(t, r, "0xABC")
	assert.Equal(t, owner.User.ID, again.User.ID)

	created := createFile(t, r, owner.AccessToken, "demo", "Demo")
	require.Len(t, created.File.Tags, 1)
	assert.Equal(t, "demo", created.File.Tags[0].Tag)
	assert.Equal(t, "0xABC", created.File.WalletAddress)
	require.NotNil(t, created.Reward)
	assert.Equal(t, 10, created.Reward.TagFile)
	assert.Equal(t, 5, created.Reward.Bonus)
	assert.Equal(t, 15, created.Reward.TotalPoints)
	assert.Equal(t, 15, me(t, r, owner.AccessToken).RewardPoints)

	fileID := created.File.ID
	voter := connect(t, r, "0xDEF")

	up := vote(t, r, voter.AccessToken, fileID, 1)
	assert.Equal(t, service.TransitionNew, up.Transition)
	assert.Equal(t, int64(1), up.Tally.Net)
	assert.Equal(t, 17, up.OwnerPoints)
	assert.Equal(t, 17, me(t, r, owner.AccessToken).RewardPoints)

	code, env := doJSON(t, r, http.MethodGet, fileURL(fileID, "/votes"), voter.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var tally dto.TallyResponse
	require.NoError(t, json.Unmarshal(env.Data, &tally))
	assert.Equal(t, int64(1), tally.Upvotes)
	require.NotNil(t, tally.MyVote)
	assert.Equal(t, 1, *tally.MyVote)

	reverted := vote(t, r, voter.AccessToken, fileID, 1)
	assert.Equal(t, service.TransitionRevert, reverted.Transition)
	assert.Zero(t, reverted.VoteType)
	assert.Zero(t, reverted.Tally.Net)
	assert.Equal(t, 15, me(t, r, owner.AccessToken).RewardPoints)

	code, env = doJSON(t, r, http.MethodGet, "/api/me/points", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var history dto.ListResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, int64(4), history.Total)

	code, env = doJSON(t, r, http.MethodGet, fileURL(fileID, ""), "", nil)
	require.Equal(t, http.StatusOK, code)
	var detail dto.FileResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, fileID, detail.ID)
	assert.Zero(t, detail.NetVotes)
}

func TestAuthAndErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	owner := connect(t, r, "0xABC")
	other := connect(t, r, "0xDEF")
	created := createFile(t, r, owner.AccessToken, "demo")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"missing token", http.MethodPost, "/api/files", "", gin.H{}, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/me", "not-a-jwt", nil, http.StatusUnauthorized},
		{"blank wallet", http.MethodPost, "/api/wallet/connect", "", gin.H{"wallet_address": "   "}, http.StatusBadRequest},
		{"invalid vote type", http.MethodPost, fileURL(created.File.ID, "/vote"), other.AccessToken, gin.H{"vote_type": 2}, http.StatusBadRequest},
		{"unknown file", http.MethodPost, "/api/files/999/vote", other.AccessToken, gin.H{"vote_type": 1}, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/files/abc", "", nil, http.StatusBadRequest},
		{"edit tags of other owner", http.MethodPut, fileURL(created.File.ID, "/tags"), other.AccessToken,
			gin.H{"tags": []gin.H{{"tag": "spam"}}}, http.StatusForbidden},
		{"unknown persisted tag", http.MethodPut, fileURL(created.File.ID, "/tags"), owner.AccessToken,
			gin.H{"tags": []gin.H{{"id": 9999, "tag": "ghost"}}}, http.StatusNotFound},
		{"blank tags only", http.MethodPost, "/api/files", owner.AccessToken, gin.H{
			"filecoin_hash": "bafy", "file_type": "image", "network": "mainnet",
			"tags": []gin.H{{"tag": "  "}},
		}, http.StatusBadRequest},
		{"bad order", http.MethodGet, "/api/files?order_by=random", "", nil, http.StatusBadRequest},
		{"internal job without key", http.MethodPost, "/api/internal/jobs/dedupe-tags", "", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := doJSON(t, r, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, code, env.Message)
			assert.Equal(t, tc.status, env.Code)
		})
	}
}

func TestListAndSearch(t *testing.T) {
	r := newTestRouter(t)
	owner := connect(t, r, "0xABC")
	cat := createFile(t, r, owner.AccessToken, "Cats")
	createFile(t, r, owner.AccessToken, "dogs")

	code, env := doJSON(t, r, http.MethodGet, "/api/tags?q=CAT", "", nil)
	require.Equal(t, http.StatusOK, code)
	var tags []dto.TagResponse
	require.NoError(t, json.Unmarshal(env.Data, &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "cats", tags[0].Tag)

	code, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/files?tags=%d", tags[0].ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Items []dto.FileResponse `json:"items"`
		Total int64              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, cat.File.ID, list.Items[0].ID)

	code, _ = doJSON(t, r, http.MethodGet, "/api/files?order_by=upvotes&limit=5", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestInternalDedupeJob(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/internal/jobs/dedupe-tags", nil)
	req.Header.Set("X-Internal-API-Key", "internal-secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestLiveTallyFeed(t *testing.T) {
	r := newTestRouter(t)
	owner := connect(t, r, "0xABC")
	voter := connect(t, r, "0xDEF")
	created := createFile(t, r, owner.AccessToken, "live")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fileURL(created.File.ID, "/live")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial dto.LiveMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "tally", initial.Type)
	assert.Zero(t, initial.Data.Net)

	vote(t, r, voter.AccessToken, created.File.ID, -1)

	var update dto.LiveMessage
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, created.File.ID, update.Data.FileID)
	assert.Equal(t, int64(1), update.Data.Downvotes)
	assert.Equal(t, int64(-1), update.Data.Net)
}

func TestListMyFilesPaginated(t *testing.T) {
	r := newTestRouter(t)
	owner := connect(t, r, "0xABC")
	other := connect(t, r, "0xDEF")
	for i := 0; i < 3; i++ {
		createFile(t, r, owner.AccessToken, fmt.Sprintf("tag-%d", i))
	}
	createFile(t, r, other.AccessToken, "elsewhere")

	req := httptest.NewRequest(http.MethodGet, "/api/me/files?page=2&per_page=2", nil)
	req.Header.Set("Authorization", "Bearer "+owner.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Data    []dto.FileResponse `json:"data"`
		Total   int64              `json:"total"`
		Page    int                `json:"page"`
		PerPage int                `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PerPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "0xABC", page.Data[0].WalletAddress)
	assert.Len(t, page.Data[0].Tags, 1)

	code, _ := doJSON(t, r, http.MethodGet, "/api/me/files", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, r, http.MethodGet, "/api/me/files?per_page=500", owner.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
