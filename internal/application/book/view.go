package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// BookView 图书及发布者信息
type BookView struct {
	Book    *book.Book
	AddedBy user.Profile
}

// BookDetail 图书详情
// Book中的评分字段已替换为读时计算的结果
type BookDetail struct {
	BookView
	Reviews []ReviewWithAuthor
}

// ReviewWithAuthor 评论及作者信息
type ReviewWithAuthor struct {
	Review *review.Review
	Author user.Profile
}

// profileOf 用户已不存在时只保留ID
func profileOf(profiles map[uint]user.Profile, id uint) user.Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return user.Profile{ID: id}
}

func loadViews(ctx context.Context, users user.Repository, books []*book.Book) ([]BookView, error) {
	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.OwnerID
	}
	profiles, err := users.FindProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = BookView{Book: b, AddedBy: profileOf(profiles, b.OwnerID)}
	}
	return views, nil
}

func loadView(ctx context.Context, users user.Repository, b *book.Book) (*BookView, error) {
	views, err := loadViews(ctx, users, []*book.Book{b})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
