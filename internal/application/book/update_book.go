package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// UpdateBookUseCase 修改图书用例
// 只有发布者可以修改；请求中的averageRating/reviewsCount在HTTP层就不会被绑定
type UpdateBookUseCase struct {
	bookService book.Service
	users       user.Repository
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, users user.Repository) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, users: users}
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, identity user.Identity, id uint, patch book.Patch) (*BookView, error) {
	b, err := uc.bookService.Update(ctx, identity.UserID, id, patch)
	if err != nil {
		return nil, err
	}
	return loadView(ctx, uc.users, b)
}
