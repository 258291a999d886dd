package dto

import (
	"time"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// CreateReviewRequest 发表评论请求
// rating范围由领域层校验，统一返回评分错误码
type CreateReviewRequest struct {
	Rating     int    `json:"rating" example:"5"`
	ReviewText string `json:"reviewText" binding:"max=5000" example:"A masterpiece"`
}

// UpdateReviewRequest 修改评论请求
type UpdateReviewRequest struct {
	Rating     *int    `json:"rating" example:"4"`
	ReviewText *string `json:"reviewText" binding:"omitempty,max=5000"`
}

// BookSummaryResponse 被评论图书
type BookSummaryResponse struct {
	ID     uint   `json:"id" example:"1"`
	Title  string `json:"title" example:"Dune"`
	Author string `json:"author" example:"Frank Herbert"`
}

// ReviewResponse 评论
type ReviewResponse struct {
	ID         uint                 `json:"id" example:"1"`
	BookID     uint                 `json:"bookId" example:"1"`
	Book       *BookSummaryResponse `json:"book,omitempty"`
	User       ProfileResponse      `json:"user"`
	Rating     int                  `json:"rating" example:"5"`
	ReviewText string               `json:"reviewText" example:"A masterpiece"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// ReviewListResponse {reviews: [...]}
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

func newReviewResponse(r *review.Review, author user.Profile) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		User:       ToProfileResponse(author),
		Rating:     r.Rating,
		ReviewText: r.Text,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ToReviewResponse 转换评论
func ToReviewResponse(v *appreview.ReviewView) ReviewResponse {
	resp := newReviewResponse(v.Review, v.Author)
	if v.Book != nil {
		resp.Book = &BookSummaryResponse{ID: v.Book.ID, Title: v.Book.Title, Author: v.Book.Author}
	}
	return resp
}

// ToReviewListResponse 转换评论列表
func ToReviewListResponse(views []appreview.ReviewView) ReviewListResponse {
	reviews := make([]ReviewResponse, len(views))
	for i := range views {
		reviews[i] = ToReviewResponse(&views[i])
	}
	return ReviewListResponse{Reviews: reviews}
}
