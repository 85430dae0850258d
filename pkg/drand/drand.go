package drand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const latestCacheKey = "latest"

var beaconFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "filetag_beacon_fetch_total",
		Help: "drand 信标请求次数",
	},
	[]string{"result"},
)

// Beacon drand 信标
type Beacon struct {
	Round             uint64 `json:"round"`
	Randomness        string `json:"randomness"`
	Signature         string `json:"signature"`
	PreviousSignature string `json:"previous_signature,omitempty"`
}

// Options 客户端选项
type Options struct {
	BaseURL   string
	ChainHash string
	Timeout   time.Duration
	// CacheEnabled 为 false 时每次都请求信标
	CacheEnabled bool
	CacheTTL     time.Duration
	Logger       logrus.FieldLogger
	HTTPClient   *http.Client
}

// Client drand HTTP 客户端
type Client struct {
	client    *http.Client
	baseURL   string
	chainHash string
	cache     *expirable.LRU[string, *Beacon]
	logger    logrus.FieldLogger
}

// NewClient 创建 drand 客户端
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Client{
		client:    httpClient,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		chainHash: opts.ChainHash,
		logger:    logger,
	}
	if opts.CacheEnabled && opts.CacheTTL > 0 {
		c.cache = expirable.NewLRU[string, *Beacon](1, nil, opts.CacheTTL)
	}
	return c
}

// latestURL 最新信标地址
func (c *Client) latestURL() string {
	if c.chainHash != "" {
		return c.baseURL + "/" + c.chainHash + "/public/latest"
	}
	return c.baseURL + "/public/latest"
}

// Latest 获取最新信标
func (c *Client) Latest(ctx context.Context) (*Beacon, error) {
	if c.cache != nil {
		if beacon, ok := c.cache.Get(latestCacheKey); ok {
			beaconFetchTotal.WithLabelValues("cache").Inc()
			return beacon, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		beaconFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		beaconFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		beaconFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("信标返回错误: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var beacon Beacon
	if err := json.Unmarshal(body, &beacon); err != nil {
		beaconFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if beacon.Randomness == "" {
		beaconFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("信标缺少 randomness 字段")
	}

	beaconFetchTotal.WithLabelValues("ok").Inc()
	if c.cache != nil {
		c.cache.Add(latestCacheKey, &beacon)
	}
	return &beacon, nil
}

// LatestRandomness 获取最新随机值，失败时返回空字符串
func (c *Client) LatestRandomness(ctx context.Context) string {
	beacon, err := c.Latest(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("获取drand随机值失败")
		return ""
	}
	return beacon.Randomness
}

// Bonus 返回 [0,100) 的奖励积分，从不返回错误
func (c *Client) Bonus(ctx context.Context) int {
	return BonusFromRandomness(c.LatestRandomness(ctx))
}
