package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// ListUserReviewsUseCase 查询某用户的全部评论
// 每条评论带上图书简要信息和作者信息，按发表时间倒序
type ListUserReviewsUseCase struct {
	reviews review.Repository
	books   book.Repository
	users   user.Repository
}

// NewListUserReviewsUseCase 创建用例
func NewListUserReviewsUseCase(reviews review.Repository, books book.Repository, users user.Repository) *ListUserReviewsUseCase {
	return &ListUserReviewsUseCase{reviews: reviews, books: books, users: users}
}

// Execute 用户不存在或没有评论时返回空列表
func (uc *ListUserReviewsUseCase) Execute(ctx context.Context, userID uint) ([]ReviewView, error) {
	reviews, err := uc.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return []ReviewView{}, nil
	}

	bookIDs := make([]uint, len(reviews))
	for i, r := range reviews {
		bookIDs[i] = r.BookID
	}
	books, err := uc.books.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	author, err := authorOf(ctx, uc.users, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		views[i] = ReviewView{Review: r, Author: author}
		if b, ok := books[r.BookID]; ok {
			views[i].Book = &BookSummary{ID: b.ID, Title: b.Title, Author: b.Author}
		}
	}
	return views, nil
}
