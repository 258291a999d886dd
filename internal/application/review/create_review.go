// Package review 评论相关用例
//
// 评论的创建、修改、删除都在一个事务里完成：
//
//	锁定图书行 → 校验 → 写评论 → 重算评分 → 写回图书
//
// 同一本书的评论变更在图书行锁上串行执行，存储的评分总是与提交后的评论集合一致。
// 任何一步失败整个事务回滚，不会出现评论已写入而评分未更新的情况。
package review

import (
	"context"
	"errors"
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

// 指标中的操作名
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// CreateReviewUseCase 发表评论用例
type CreateReviewUseCase struct {
	txManager  tx.Manager
	books      book.Repository
	reviews    review.Repository
	aggregator *review.Aggregator
	users      user.Repository
	events     event.Publisher
}

// NewCreateReviewUseCase 创建用例
func NewCreateReviewUseCase(
	txManager tx.Manager,
	books book.Repository,
	reviews review.Repository,
	aggregator *review.Aggregator,
	users user.Repository,
	events event.Publisher,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		txManager:  txManager,
		books:      books,
		reviews:    reviews,
		aggregator: aggregator,
		users:      users,
		events:     events,
	}
}

// CreateReviewRequest 发表评论请求
type CreateReviewRequest struct {
	Rating int
	Text   string
}

// Execute 发表评论
// 业务规则：
// 1. 评分1-5（400）
// 2. 图书存在（404）
// 3. 每人每书一条（409），预检查给出友好提示，唯一索引兜底并发提交
func (uc *CreateReviewUseCase) Execute(ctx context.Context, identity user.Identity, bookID uint, req CreateReviewRequest) (view *ReviewView, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Create",
		attribute.Int64("book_id", int64(bookID)),
		attribute.Int64("user_id", int64(identity.UserID)),
	)
	defer func() {
		metrics.ObserveReviewMutation(opCreate, err)
		tracing.End(span, err)
	}()

	r, err := review.NewReview(bookID, identity.UserID, req.Rating, req.Text)
	if err != nil {
		return nil, err
	}

	var stats review.Stats
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.books.LockByID(ctx, bookID); err != nil {
			return err
		}

		_, err := uc.reviews.FindByBookAndUser(ctx, bookID, identity.UserID)
		switch {
		case err == nil:
			return review.ErrReviewDuplicate
		case !errors.Is(err, review.ErrReviewNotFound):
			return err
		}

		if err := uc.reviews.Create(ctx, r); err != nil {
			return err
		}

		stats, err = uc.aggregator.Recompute(ctx, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "评论已发表", "review_id", r.ID, "book_id", bookID, "user_id", identity.UserID,
		"average_rating", stats.Average, "reviews_count", stats.Count)
	publishChanged(ctx, uc.events, event.TypeReviewCreated, r, stats)

	return &ReviewView{Review: r, Author: committedAuthor(ctx, uc.users, identity.UserID)}, nil
}
