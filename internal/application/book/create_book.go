package book

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// CreateBookUseCase 发布图书用例
// 发布者即当前登录用户，评分从0/0开始
type CreateBookUseCase struct {
	bookService book.Service
	users       user.Repository
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, users user.Repository) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService, users: users}
}

// Execute 执行发布
func (uc *CreateBookUseCase) Execute(ctx context.Context, identity user.Identity, draft book.Draft) (*BookView, error) {
	b, err := uc.bookService.Create(ctx, identity.UserID, draft)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "图书已发布", "book_id", b.ID, "owner_id", b.OwnerID)
	return loadView(ctx, uc.users, b)
}
