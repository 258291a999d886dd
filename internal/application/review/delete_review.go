package review

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/tx"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// DeleteReviewUseCase 删除评论用例
type DeleteReviewUseCase struct {
	txManager  tx.Manager
	books      book.Repository
	reviews    review.Repository
	aggregator *review.Aggregator
	events     event.Publisher
}

// NewDeleteReviewUseCase 创建用例
func NewDeleteReviewUseCase(
	txManager tx.Manager,
	books book.Repository,
	reviews review.Repository,
	aggregator *review.Aggregator,
	events event.Publisher,
) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		txManager:  txManager,
		books:      books,
		reviews:    reviews,
		aggregator: aggregator,
		events:     events,
	}
}

// Execute 删除评论，最后一条评论删除后图书评分回到0/0
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, identity user.Identity, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Delete",
		attribute.Int64("review_id", int64(id)),
		attribute.Int64("user_id", int64(identity.UserID)),
	)
	defer func() {
		metrics.ObserveReviewMutation(opDelete, err)
		tracing.End(span, err)
	}()

	current, err := uc.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := review.CheckAuthor(current, identity.UserID); err != nil {
		return err
	}

	var stats review.Stats
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.books.LockByID(ctx, current.BookID); err != nil {
			return err
		}

		r, err := uc.reviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := review.CheckAuthor(r, identity.UserID); err != nil {
			return err
		}
		if err := uc.reviews.Delete(ctx, id); err != nil {
			return err
		}

		stats, err = uc.aggregator.Recompute(ctx, r.BookID)
		return err
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "评论已删除", "review_id", id, "book_id", current.BookID,
		"average_rating", stats.Average, "reviews_count", stats.Count)
	publishChanged(ctx, uc.events, event.TypeReviewDeleted, current, stats)
	return nil
}
