package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestObserveHTTPRequest 测试HTTP请求计数与耗时
func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/books/:id", "200"))

	ObserveHTTPRequest("GET", "/api/books/:id", "200", 15*time.Millisecond)
	ObserveHTTPRequest("GET", "/api/books/:id", "200", 30*time.Millisecond)
	ObserveHTTPRequest("GET", "/api/books/:id", "404", 5*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/books/:id", "200"))
	assert.Equal(t, 2.0, after-before)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}

// TestObserveReviewMutation 测试评论变更按结果分类
func TestObserveReviewMutation(t *testing.T) {
	ok := ReviewMutationsTotal.WithLabelValues("create", ResultSuccess)
	failed := ReviewMutationsTotal.WithLabelValues("create", ResultFailure)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveReviewMutation("create", nil)
	ObserveReviewMutation("create", nil)
	ObserveReviewMutation("create", errors.New("duplicate"))

	assert.Equal(t, 2.0, testutil.ToFloat64(ok)-okBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(failed)-failedBefore)
}

// TestObserveRecompute 测试只有失败才计入失败数
func TestObserveRecompute(t *testing.T) {
	before := testutil.ToFloat64(RatingRecomputeFailures)

	ObserveRecompute(time.Millisecond, nil)
	ObserveRecompute(time.Millisecond, errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(RatingRecomputeFailures)-before)
}

// TestCircuitBreakerGauge 测试熔断器状态Gauge
func TestCircuitBreakerGauge(t *testing.T) {
	SetCircuitBreakerState("mq", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("mq")))

	SetCircuitBreakerState("mq", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("mq")))
}

func TestObserveEventPublish(t *testing.T) {
	c := EventsPublishedTotal.WithLabelValues("review.created", ResultFailure)
	before := testutil.ToFloat64(c)

	ObserveEventPublish("review.created", errors.New("channel closed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}
