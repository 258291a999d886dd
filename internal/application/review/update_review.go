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

// UpdateReviewUseCase 修改评论用例
type UpdateReviewUseCase struct {
	txManager  tx.Manager
	books      book.Repository
	reviews    review.Repository
	aggregator *review.Aggregator
	users      user.Repository
	events     event.Publisher
}

// NewUpdateReviewUseCase 创建用例
func NewUpdateReviewUseCase(
	txManager tx.Manager,
	books book.Repository,
	reviews review.Repository,
	aggregator *review.Aggregator,
	users user.Repository,
	events event.Publisher,
) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		txManager:  txManager,
		books:      books,
		reviews:    reviews,
		aggregator: aggregator,
		users:      users,
		events:     events,
	}
}

// UpdateReviewRequest 部分修改，nil表示不修改
type UpdateReviewRequest struct {
	Rating *int
	Text   *string
}

// Execute 修改评论
// 先在事务外确认评论存在与作者身份（拿到book_id才能加锁），
// 加锁后重新读取，防止期间评论已被删除
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, identity user.Identity, id uint, req UpdateReviewRequest) (view *ReviewView, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Update",
		attribute.Int64("review_id", int64(id)),
		attribute.Int64("user_id", int64(identity.UserID)),
	)
	defer func() {
		metrics.ObserveReviewMutation(opUpdate, err)
		tracing.End(span, err)
	}()

	current, err := uc.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := review.CheckAuthor(current, identity.UserID); err != nil {
		return nil, err
	}
	if req.Rating != nil {
		if err := review.ValidateRating(*req.Rating); err != nil {
			return nil, err
		}
	}

	var (
		r     *review.Review
		stats review.Stats
	)
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.books.LockByID(ctx, current.BookID); err != nil {
			return err
		}

		var err error
		r, err = uc.reviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := review.CheckAuthor(r, identity.UserID); err != nil {
			return err
		}
		if err := r.Edit(req.Rating, req.Text); err != nil {
			return err
		}
		if err := uc.reviews.Update(ctx, r); err != nil {
			return err
		}

		stats, err = uc.aggregator.Recompute(ctx, r.BookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "评论已修改", "review_id", r.ID, "book_id", r.BookID,
		"average_rating", stats.Average, "reviews_count", stats.Count)
	publishChanged(ctx, uc.events, event.TypeReviewUpdated, r, stats)

	return &ReviewView{Review: r, Author: committedAuthor(ctx, uc.users, r.UserID)}, nil
}
