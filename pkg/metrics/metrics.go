// Package metrics 提供基于Prometheus的指标收集
//
// # 指标分类
//
// 1. HTTP指标：请求总数、耗时分布、正在处理的请求数（由middleware.Metrics记录）
// 2. 业务指标：评论变更次数、评分重算耗时与失败数
// 3. 基础设施指标：事件发布、熔断器状态
//
// # 命名规范
//
//   - Counter以`_total`结尾
//   - Histogram以单位结尾（`_seconds`）
//   - 标签只使用有限取值（method、op、result），不要用user_id、book_id作为标签
//
// # 使用示例
//
//	start := time.Now()
//	err := aggregator.Recompute(ctx, bookID)
//	metrics.ObserveRecompute(time.Since(start), err)
//
// 所有指标在包初始化时通过promauto注册到默认Registry，
// /metrics端点由promhttp.Handler()暴露。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookreview"

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
)

var (
	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path（路由模板，如/api/books/:id）、status（200/404）
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	// 业务指标

	// ReviewMutationsTotal 评论变更总数
	// 标签：op（create/update/delete）、result（success/failure）
	ReviewMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_mutations_total",
			Help:      "评论变更总数",
		},
		[]string{"op", "result"},
	)

	// RatingRecomputeDuration 评分重算耗时
	// 一次AVG+COUNT查询加一次UPDATE，正常在毫秒级
	RatingRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rating_recompute_duration_seconds",
			Help:      "图书评分重算耗时（秒）",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// RatingRecomputeFailures 评分重算失败总数
	RatingRecomputeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_recompute_failures_total",
			Help:      "图书评分重算失败总数",
		},
	)

	// 熔断器指标

	// CircuitBreakerState 熔断器状态
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标

	// EventsPublishedTotal 领域事件发布总数
	// 标签：routing_key（review.created等）、result（success/failure）
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)
)

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveReviewMutation 记录一次评论变更结果
func ObserveReviewMutation(op string, err error) {
	ReviewMutationsTotal.WithLabelValues(op, resultOf(err)).Inc()
}

// ObserveRecompute 记录一次评分重算
func ObserveRecompute(elapsed time.Duration, err error) {
	RatingRecomputeDuration.Observe(elapsed.Seconds())
	if err != nil {
		RatingRecomputeFailures.Inc()
	}
}

// ObserveEventPublish 记录一次事件发布
func ObserveEventPublish(routingKey string, err error) {
	EventsPublishedTotal.WithLabelValues(routingKey, resultOf(err)).Inc()
}

// SetCircuitBreakerState 更新熔断器状态
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncCircuitBreakerRequest 递增熔断器请求计数
func IncCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

func resultOf(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
