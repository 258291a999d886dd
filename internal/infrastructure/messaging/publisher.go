// Package messaging 把领域事件发布到RabbitMQ
package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
)

const breakerName = "rabbitmq"

// sender mq.Publisher的发布能力
type sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 领域事件发布器
// 设计说明：
// 1. 事件类型即routing key
// 2. 经过熔断器调用RabbitMQ，Broker不可用时快速失败，不拖慢请求
// 3. 发布失败只记录日志和指标，返回nil，业务结果以数据库为准
type EventPublisher struct {
	sender  sender
	breaker *circuitbreaker.CircuitBreaker
	log     *slog.Logger
}

// NewEventPublisher 根据配置创建事件发布器
// mq.enabled=false时返回NopPublisher
func NewEventPublisher(cfg *config.Config, log *slog.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("消息队列未启用，领域事件不发布")
		return event.NopPublisher{}, func() {}, nil
	}

	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, "bookreview")
	if err != nil {
		return nil, nil, fmt.Errorf("初始化消息发布者失败: %w", err)
	}
	log.Info("RabbitMQ连接成功", "exchange", p.Exchange())

	cleanup := func() {
		if err := p.Close(); err != nil {
			log.Error("关闭RabbitMQ连接失败", "error", err)
		}
	}
	return newEventPublisher(p, cfg.MQ.Breaker, log), cleanup, nil
}

func newEventPublisher(s sender, bc config.BreakerConfig, log *slog.Logger) *EventPublisher {
	threshold := bc.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := circuitbreaker.New(breakerName, circuitbreaker.Config{
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})

	return &EventPublisher{sender: s, breaker: breaker, log: log}
}

// Publish 发布事件
func (p *EventPublisher) Publish(ctx context.Context, e event.Event) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.sender.Publish(ctx, e.Type, e)
	})

	switch {
	case err == nil:
		metrics.IncCircuitBreakerRequest(breakerName, metrics.ResultSuccess)
	case err == circuitbreaker.ErrOpenState:
		metrics.IncCircuitBreakerRequest(breakerName, metrics.ResultRejected)
	default:
		metrics.IncCircuitBreakerRequest(breakerName, metrics.ResultFailure)
	}
	metrics.ObserveEventPublish(e.Type, err)

	if err != nil {
		p.log.WarnContext(ctx, "领域事件发布失败", "type", e.Type, "error", err)
	}
	return nil
}
