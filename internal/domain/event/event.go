// Package event 领域事件
// 事件在事务提交后发布，发布失败只记录日志和指标，不影响请求结果。
package event

import (
	"context"
	"time"
)

// 事件类型（同时作为RabbitMQ routing key）
const (
	TypeReviewCreated = "review.created"
	TypeReviewUpdated = "review.updated"
	TypeReviewDeleted = "review.deleted"
	TypeBookDeleted   = "book.deleted"
)

// Event 领域事件
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// ReviewChanged 评论变更事件载荷，携带变更后的图书评分
type ReviewChanged struct {
	ReviewID      uint    `json:"reviewId"`
	BookID        uint    `json:"bookId"`
	UserID        uint    `json:"userId"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"averageRating"`
	ReviewsCount  int     `json:"reviewsCount"`
}

// BookDeleted 图书删除事件载荷
type BookDeleted struct {
	BookID         uint  `json:"bookId"`
	OwnerID        uint  `json:"ownerId"`
	DeletedReviews int64 `json:"deletedReviews"`
}

// New 创建事件
func New(eventType string, payload any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher 不发布任何事件（mq.enabled=false时使用）
type NopPublisher struct{}

// Publish 空操作
func (NopPublisher) Publish(context.Context, Event) error { return nil }
