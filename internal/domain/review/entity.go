package review

import (
	"time"
)

// 评分范围
const (
	MinRating = 1
	MaxRating = 5
)

// Review 评论实体
// 业务规则：
// 1. 评分为1-5的整数
// 2. 同一用户对同一本书只能有一条评论（数据库唯一索引(book_id, user_id)保证）
// 3. 只有作者可以修改、删除自己的评论
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	Rating    int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview 创建评论（工厂方法）
func NewReview(bookID, userID uint, rating int, text string) (*Review, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Review{
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit 部分修改，nil表示不修改
// 提供了评分时重新校验范围
func (r *Review) Edit(rating *int, text *string) error {
	if rating != nil {
		if err := ValidateRating(*rating); err != nil {
			return err
		}
		r.Rating = *rating
	}
	if text != nil {
		r.Text = *text
	}
	r.UpdatedAt = time.Now()
	return nil
}

// IsAuthoredBy 是否为评论作者
func (r *Review) IsAuthoredBy(userID uint) bool {
	return r.UserID == userID
}

// CheckAuthor 作者校验
func CheckAuthor(r *Review, actorID uint) error {
	if !r.IsAuthoredBy(actorID) {
		return ErrNotAuthor
	}
	return nil
}

// ValidateRating 评分范围校验
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
