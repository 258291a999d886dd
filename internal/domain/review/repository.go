package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论
	// 违反(book_id, user_id)唯一索引时返回ErrReviewDuplicate
	Create(ctx context.Context, review *Review) error

	// FindByID 不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// FindByBookAndUser 查询某用户对某书的评论，不存在返回ErrReviewNotFound
	FindByBookAndUser(ctx context.Context, bookID, userID uint) (*Review, error)

	// Update 更新评分与内容
	Update(ctx context.Context, review *Review) error

	// Delete 删除评论
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除某本书的全部评论，返回删除条数
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// ListByBook 某本书的评论，按创建时间倒序
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// ListByUser 某用户的评论，按创建时间倒序
	ListByUser(ctx context.Context, userID uint) ([]*Review, error)

	// Stats 在存储层计算AVG(rating)与COUNT(*)，无评论时返回0/0
	Stats(ctx context.Context, bookID uint) (Stats, error)
}
