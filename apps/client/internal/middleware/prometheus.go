package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ==================== Prometheus 指标 ====================

var (
	// httpRequestTotal HTTP 请求总数，按方法/路由/状态码分维度
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration HTTP 请求耗时分布
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP 请求耗时（秒）",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpRequestInFlight 当前正在处理的请求数
	httpRequestInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "正在处理的 HTTP 请求数",
		},
	)
)

// PrometheusMiddleware 请求指标采集中间件
// path 维度使用路由模板（/api/v1/clients/:userId）而非原始 URL，
// 避免高基数标签把 Prometheus 撑爆
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestInFlight.Inc()

		c.Next()

		httpRequestInFlight.Dec()

		path := c.FullPath()
		if path == "" {
			// 未匹配任何路由（404），统一归类
			path = "unmatched"
		}

		httpRequestTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
