package drand

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"12345678", 0x12345678},
		{"deadbeefcafe", 0xdeadbeef},
		{"DEADBEEF", 0xdeadbeef},
		{"12zz5678", 0x12},
		{"zz", 0},
		{"abc", 0xabc},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Seed(tc.in), "seed(%q)", tc.in)
	}
}

func TestBonusFromRandomness(t *testing.T) {
	cases := []struct {
		randomness string
		want       int
	}{
		{"", 23},
		{"00000000", 23},
		{"80000000aa", 73},
		{"12345678", 45},
		{"deadbeef0011", 41},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BonusFromRandomness(tc.randomness), "bonus(%q)", tc.randomness)
	}
}

func TestBonusRange(t *testing.T) {
	lcg := NewLCG(7)
	for i := 0; i < 10000; i++ {
		n := lcg.Intn(100)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 100)
	}
}

func TestLCGNextMatchesIntn(t *testing.T) {
	a := NewLCG(0x12345678)
	b := NewLCG(0x12345678)
	f := a.Next()
	assert.Equal(t, int(f*100), b.Intn(100))
}

func newBeaconServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/public/latest", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestClientBonus(t *testing.T) {
	var hits int32
	srv := newBeaconServer(t, http.StatusOK, `{"round":42,"randomness":"80000000ffff","signature":"sig"}`, &hits)

	client := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})

	beacon, err := client.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), beacon.Round)

	// 相同随机值得到相同结果
	assert.Equal(t, 73, client.Bonus(context.Background()))
	assert.Equal(t, 73, client.Bonus(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClientCache(t *testing.T) {
	var hits int32
	srv := newBeaconServer(t, http.StatusOK, `{"round":1,"randomness":"12345678"}`, &hits)

	client := NewClient(Options{
		BaseURL:      srv.URL,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
		Logger:       quietLogger(),
	})

	assert.Equal(t, 45, client.Bonus(context.Background()))
	assert.Equal(t, 45, client.Bonus(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClientFallback(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"bad json", http.StatusOK, "{"},
		{"missing randomness", http.StatusOK, `{"round":3}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits int32
			srv := newBeaconServer(t, tc.status, tc.body, &hits)
			client := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})

			assert.Equal(t, "", client.LatestRandomness(context.Background()))
			assert.Equal(t, 23, client.Bonus(context.Background()))
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, Logger: quietLogger()})
	assert.Equal(t, 23, client.Bonus(context.Background()))
}

func TestLatestURLWithChainHash(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://api.drand.sh/", ChainHash: "abc"})
	assert.Equal(t, "https://api.drand.sh/abc/public/latest", client.latestURL())

	client = NewClient(Options{BaseURL: "https://api.drand.sh"})
	assert.Equal(t, "https://api.drand.sh/public/latest", client.latestURL())
}
