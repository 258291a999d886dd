package dto

import (
	"time"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
)

// CreateBookRequest 发布图书请求
// averageRating/reviewsCount不在请求结构中，客户端传了也会被忽略
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=255" example:"Dune"`
	Author      string `json:"author" binding:"required,notblank,max=255" example:"Frank Herbert"`
	Description string `json:"description" binding:"max=5000" example:"Science fiction classic"`
	Genre       string `json:"genre" binding:"max=100" example:"Sci-Fi"`
	Year        *int   `json:"year" binding:"omitempty,min=0,max=9999" example:"1965"`
}

// ToDraft 转换为领域输入
func (r CreateBookRequest) ToDraft() book.Draft {
	return book.Draft{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Genre:       r.Genre,
		Year:        r.Year,
	}
}

// UpdateBookRequest 修改图书请求，只更新出现的字段
type UpdateBookRequest struct {
	Title       *string     `json:"title" binding:"omitempty,max=255" example:"Dune Messiah"`
	Author      *string     `json:"author" binding:"omitempty,max=255"`
	Description *string     `json:"description" binding:"omitempty,max=5000"`
	Genre       *string     `json:"genre" binding:"omitempty,max=100"`
	Year        NullableInt `json:"year" swaggertype:"integer"`
}

// ToPatch 转换为领域输入
func (r UpdateBookRequest) ToPatch() book.Patch {
	return book.Patch{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Genre:       r.Genre,
		Year:        r.Year.Value,
		YearSet:     r.Year.Set,
	}
}

// ListBooksQuery 列表查询参数
// 非数字的page/addedBy在绑定阶段返回400
type ListBooksQuery struct {
	Page    int  `form:"page" example:"1"`
	AddedBy uint `form:"addedBy" example:"1"`
}

// BookResponse 图书
type BookResponse struct {
	ID            uint            `json:"id" example:"1"`
	Title         string          `json:"title" example:"Dune"`
	Author        string          `json:"author" example:"Frank Herbert"`
	Description   string          `json:"description" example:""`
	Genre         string          `json:"genre" example:"Sci-Fi"`
	Year          *int            `json:"year" example:"1965"`
	AddedBy       ProfileResponse `json:"addedBy"`
	AverageRating float64         `json:"averageRating" example:"4.5"`
	ReviewsCount  int             `json:"reviewsCount" example:"2"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BookDetailResponse 图书详情，评分为读时计算结果
type BookDetailResponse struct {
	BookResponse
	Reviews []ReviewResponse `json:"reviews"`
}

// BookEnvelope {book: ...}
type BookEnvelope struct {
	Book BookResponse `json:"book"`
}

// BookDetailEnvelope {book: ...}
type BookDetailEnvelope struct {
	Book BookDetailResponse `json:"book"`
}

// ListBooksResponse 图书列表
type ListBooksResponse struct {
	Books      []BookResponse `json:"books"`
	Page       int            `json:"page" example:"1"`
	TotalPages int            `json:"totalPages" example:"1"`
	TotalBooks int64          `json:"totalBooks" example:"3"`
}

// ToBookResponse 转换图书
func ToBookResponse(v appbook.BookView) BookResponse {
	b := v.Book
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Genre:         b.Genre,
		Year:          b.Year,
		AddedBy:       ToProfileResponse(v.AddedBy),
		AverageRating: b.AverageRating,
		ReviewsCount:  b.ReviewsCount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBookDetailResponse 转换图书详情
func ToBookDetailResponse(d *appbook.BookDetail) BookDetailResponse {
	reviews := make([]ReviewResponse, len(d.Reviews))
	for i, r := range d.Reviews {
		reviews[i] = newReviewResponse(r.Review, r.Author)
	}
	return BookDetailResponse{
		BookResponse: ToBookResponse(d.BookView),
		Reviews:      reviews,
	}
}

// ToListBooksResponse 转换列表
func ToListBooksResponse(r *appbook.ListBooksResponse) ListBooksResponse {
	books := make([]BookResponse, len(r.Books))
	for i, v := range r.Books {
		books[i] = ToBookResponse(v)
	}
	return ListBooksResponse{
		Books:      books,
		Page:       r.Page,
		TotalPages: r.TotalPages,
		TotalBooks: r.TotalBooks,
	}
}
