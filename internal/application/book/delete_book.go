package book

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/tx"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
// 设计说明：
// 1. 与评论变更使用同一把图书行锁，删除过程中不会有新评论写入
// 2. 先删评论再删图书，同一事务内完成，不会留下孤立评论
// 3. 提交后发布book.deleted事件
type DeleteBookUseCase struct {
	txManager tx.Manager
	books     book.Repository
	reviews   review.Repository
	events    event.Publisher
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(
	txManager tx.Manager,
	books book.Repository,
	reviews review.Repository,
	events event.Publisher,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		txManager: txManager,
		books:     books,
		reviews:   reviews,
		events:    events,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, identity user.Identity, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Delete", attribute.Int64("book_id", int64(id)))
	defer func() { tracing.End(span, err) }()

	var deleted int64
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		b, err := uc.books.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if err := book.CheckOwner(b, identity.UserID); err != nil {
			return err
		}

		deleted, err = uc.reviews.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		return uc.books.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "图书已删除", "book_id", id, "owner_id", identity.UserID, "deleted_reviews", deleted)

	e := event.New(event.TypeBookDeleted, event.BookDeleted{
		BookID:         id,
		OwnerID:        identity.UserID,
		DeletedReviews: deleted,
	})
	if perr := uc.events.Publish(ctx, e); perr != nil {
		slog.WarnContext(ctx, "领域事件发布失败", "type", e.Type, "error", perr)
	}
	return nil
}
