package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// GetBookUseCase 图书详情用例
// 评分按当前评论读时计算，不读books表中的存储值
type GetBookUseCase struct {
	bookService book.Service
	reviews     review.Repository
	users       user.Repository
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service, reviews review.Repository, users user.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, reviews: reviews, users: users}
}

// Execute 查询详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	b, err := uc.bookService.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := uc.reviews.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := review.ComputeStats(reviews)
	b.ApplyRating(stats.Average, stats.Count)

	ids := make([]uint, 0, len(reviews)+1)
	ids = append(ids, b.OwnerID)
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	profiles, err := uc.users.FindProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{
		BookView: BookView{Book: b, AddedBy: profileOf(profiles, b.OwnerID)},
		Reviews:  make([]ReviewWithAuthor, len(reviews)),
	}
	for i, r := range reviews {
		detail.Reviews[i] = ReviewWithAuthor{Review: r, Author: profileOf(profiles, r.UserID)}
	}
	return detail, nil
}
