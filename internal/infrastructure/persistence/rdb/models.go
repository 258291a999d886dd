package rdb

import (
	"time"

	"gorm.io/gorm"
)

// UserModel 用户表
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:姓名"`
	Email     string    `gorm:"uniqueIndex;size:255;not null;comment:邮箱（小写）"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel 图书表
// average_rating/reviews_count是评论表的派生值，只通过UpdateRating写入
type BookModel struct {
	ID            uint           `gorm:"primaryKey"`
	Title         string         `gorm:"size:255;not null;comment:书名"`
	Author        string         `gorm:"size:255;not null;comment:作者"`
	Description   string         `gorm:"type:text;comment:简介"`
	Genre         string         `gorm:"size:100;not null;default:'';comment:类型"`
	Year          *int           `gorm:"comment:出版年份"`
	OwnerID       uint           `gorm:"index;not null;comment:发布者用户ID"`
	AverageRating float64        `gorm:"not null;default:0;comment:平均评分"`
	ReviewsCount  int            `gorm:"not null;default:0;comment:评论数"`
	CreatedAt     time.Time      `gorm:"index;comment:创建时间"` // 列表按创建时间倒序
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// ReviewModel 评论表
// (book_id, user_id)唯一索引是"每人每书一条评论"的最终保证；评论随图书删除物理删除
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"not null;uniqueIndex:uk_reviews_book_user,priority:1;comment:图书ID"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_reviews_book_user,priority:2;index;comment:评论者用户ID"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5;comment:评分1-5"`
	Text      string    `gorm:"column:review_text;type:text;comment:评论内容"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}
