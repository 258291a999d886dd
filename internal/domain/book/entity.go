package book

import (
	"strings"
	"time"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. AverageRating/ReviewsCount是派生状态，只能由评分聚合引擎写入，客户端永远不能直接设置
// 2. OwnerID是发布者用户ID，只有发布者可以修改、删除图书
// 3. Year可为空（未知出版年份）
type Book struct {
	ID            uint
	Title         string
	Author        string
	Description   string
	Genre         string
	Year          *int
	OwnerID       uint
	AverageRating float64
	ReviewsCount  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Draft 创建图书的输入
type Draft struct {
	Title       string
	Author      string
	Description string
	Genre       string
	Year        *int
}

// NewBook 创建新图书（工厂方法）
// 业务规则：书名、作者必填；评分从0/0开始
func NewBook(d Draft, ownerID uint) (*Book, error) {
	title := strings.TrimSpace(d.Title)
	author := strings.TrimSpace(d.Author)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if author == "" {
		return nil, ErrAuthorRequired
	}

	now := time.Now()
	return &Book{
		Title:       title,
		Author:      author,
		Description: d.Description,
		Genre:       d.Genre,
		Year:        d.Year,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Patch 部分更新
// nil字段表示未提供，保持原值；YearSet为true时Year可以为nil（清空年份）
type Patch struct {
	Title       *string
	Author      *string
	Description *string
	Genre       *string
	Year        *int
	YearSet     bool
}

// 可更新的列名（与rdb.BookModel字段对应）
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldGenre       = "genre"
	FieldYear        = "year"
)

// Apply 应用部分更新，返回实际提供的字段列表（Repository只更新这些列）
// 评分字段不在可更新范围内
func (b *Book) Apply(p Patch) ([]string, error) {
	var fields []string

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		b.Title = title
		fields = append(fields, FieldTitle)
	}
	if p.Author != nil {
		author := strings.TrimSpace(*p.Author)
		if author == "" {
			return nil, ErrAuthorRequired
		}
		b.Author = author
		fields = append(fields, FieldAuthor)
	}
	if p.Description != nil {
		b.Description = *p.Description
		fields = append(fields, FieldDescription)
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
		fields = append(fields, FieldGenre)
	}
	if p.YearSet {
		b.Year = p.Year
		fields = append(fields, FieldYear)
	}

	if len(fields) > 0 {
		b.UpdatedAt = time.Now()
	}
	return fields, nil
}

// IsOwnedBy 是否为图书发布者
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID == userID
}

// ApplyRating 写入聚合结果（仅供评分聚合引擎使用）
func (b *Book) ApplyRating(average float64, count int) {
	if count == 0 {
		average = 0
	}
	b.AverageRating = average
	b.ReviewsCount = count
}
