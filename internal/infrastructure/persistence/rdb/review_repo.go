package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// reviewRepository 评论仓储实现
type reviewRepository struct {
	base
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB, cfg *config.Config) review.Repository {
	return &reviewRepository{base: newBase(db, cfg)}
}

// Create 创建评论
// 应用层已预先检查重复，这里的唯一索引冲突只会在并发提交时出现
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	model := toReviewModel(rv)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrReviewDuplicate
		}
		return wrapDBError(err, "创建评论失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model ReviewModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, wrapDBError(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

func (r *reviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID uint) (*review.Review, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model ReviewModel
	err := db.Where("book_id = ? AND user_id = ?", bookID, userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, wrapDBError(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

// Update 只更新评分和内容
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&ReviewModel{ID: rv.ID}).
		Select("rating", "review_text", "updated_at").
		Updates(toReviewModel(rv))
	if result.Error != nil {
		return wrapDBError(result.Error, "更新评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "删除评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// DeleteByBook 删除图书时级联删除评论
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Where("book_id = ?", bookID).Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "删除图书评论失败")
	}
	return result.RowsAffected, nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	return r.list(ctx, "book_id = ?", bookID)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Review, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *reviewRepository) list(ctx context.Context, cond string, arg uint) ([]*review.Review, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var models []ReviewModel
	err := db.Where(cond, arg).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, wrapDBError(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

// Stats 由数据库计算平均分和条数
// 学习要点：AVG在没有行时返回NULL，用COALESCE兜底为0
func (r *reviewRepository) Stats(ctx context.Context, bookID uint) (review.Stats, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var row struct {
		Average float64
		Count   int
	}
	err := db.Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return review.Stats{}, wrapDBError(err, "统计评分失败")
	}
	return review.Stats{Average: row.Average, Count: row.Count}, nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rv.ID,
		BookID:    rv.BookID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Text:      rv.Text,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:        model.ID,
		BookID:    model.BookID,
		UserID:    model.UserID,
		Rating:    model.Rating,
		Text:      model.Text,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
