package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 每页固定5条，按发布时间倒序
// 2. 列表返回books表中存储的评分，详情页才读时计算
// 3. 可按发布者过滤
type ListBooksUseCase struct {
	bookService book.Service
	users       user.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, users user.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, users: users}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page    int  // 页码，小于1按1处理
	AddedBy uint // 发布者ID，0表示不过滤
}

// ListBooksResponse 列表查询结果
type ListBooksResponse struct {
	Books      []BookView
	Page       int
	TotalPages int
	TotalBooks int64
}

// Execute 执行列表查询
// 学习要点:
// 1. 页码超出范围时返回空列表，totalPages仍按总数计算
// 2. 没有任何图书时totalPages为1
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}

	params := book.ListParams{
		Page:     req.Page,
		PageSize: book.PageSize,
		OwnerID:  req.AddedBy,
	}
	books, total, err := uc.bookService.List(ctx, params)
	if err != nil {
		return nil, err
	}

	totalPages := params.TotalPages(total)
	if req.Page > totalPages {
		books = nil
	}

	views, err := loadViews(ctx, uc.users, books)
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		Books:      views,
		Page:       req.Page,
		TotalPages: totalPages,
		TotalBooks: total,
	}, nil
}
