package review

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// Stats 一本书的评分统计
type Stats struct {
	Average float64
	Count   int
}

// ComputeStats 在内存中计算评分统计（图书详情页读时计算使用）
func ComputeStats(reviews []*Review) Stats {
	if len(reviews) == 0 {
		return Stats{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return Stats{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}

// RatingWriter 写入图书评分字段（book.Repository实现）
type RatingWriter interface {
	UpdateRating(ctx context.Context, bookID uint, average float64, count int) error
}

// Aggregator 评分聚合引擎
//
// 每次评论创建、修改、删除后，从评论表全量重算AVG/COUNT并写回图书，
// 不做增量加减，避免并发下累积误差。
// 调用方需在同一事务中持有图书行锁（book.Repository.LockByID），
// 这样同一本书的重算串行执行，最后一次写入总是与当前评论集合一致；
// 重算失败时返回错误，调用方回滚整个事务，不会留下过期的评分。
type Aggregator struct {
	reviews Repository
	books   RatingWriter
}

// NewAggregator 创建评分聚合引擎
func NewAggregator(reviews Repository, books RatingWriter) *Aggregator {
	return &Aggregator{reviews: reviews, books: books}
}

// Recompute 重算并写回图书评分
func (a *Aggregator) Recompute(ctx context.Context, bookID uint) (stats Stats, err error) {
	ctx, span := tracing.StartSpan(ctx, "rating.Recompute", attribute.Int64("book_id", int64(bookID)))
	start := time.Now()
	defer func() {
		metrics.ObserveRecompute(time.Since(start), err)
		tracing.End(span, err)
	}()

	stats, err = a.reviews.Stats(ctx, bookID)
	if err != nil {
		slog.ErrorContext(ctx, "rating recompute: stats query failed", "book_id", bookID, "error", err)
		return Stats{}, apperrors.WrapCode(err, ErrAggregateFailed.Code, ErrAggregateFailed.Message)
	}
	if stats.Count == 0 {
		stats.Average = 0
	}

	if err = a.books.UpdateRating(ctx, bookID, stats.Average, stats.Count); err != nil {
		slog.ErrorContext(ctx, "rating recompute: write back failed", "book_id", bookID, "error", err)
		return Stats{}, apperrors.WrapCode(err, ErrAggregateFailed.Code, ErrAggregateFailed.Message)
	}

	slog.DebugContext(ctx, "rating recomputed", "book_id", bookID, "average", stats.Average, "count", stats.Count)
	return stats, nil
}
