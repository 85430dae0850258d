package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VotesCast 投票状态迁移次数，transition: new/revert/switch
	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetag_votes_cast_total",
			Help: "投票次数",
		},
		[]string{"transition"},
	)

	// PointsDelta 积分变动次数
	PointsDelta = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetag_points_delta_total",
			Help: "积分变动次数",
		},
		[]string{"reason"},
	)

	// TagsCreated 新建标签数
	TagsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filetag_tags_created_total",
		Help: "新建标签数",
	})

	// LiveSubscribers 实时票数订阅连接数
	LiveSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filetag_live_subscribers",
		Help: "实时票数订阅连接数",
	})

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filetag_http_requests_total",
			Help: "HTTP请求数",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filetag_http_request_duration_seconds",
			Help:    "HTTP请求耗时",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Middleware 记录HTTP请求指标，按路由模板聚合
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 处理器
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
