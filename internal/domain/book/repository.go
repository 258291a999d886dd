package book

import (
	"context"
	"math"
)

// PageSize 图书列表固定每页条数
const PageSize = 5

// Repository 图书仓储接口
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查询，不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询，不存在的ID不出现在结果中
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// Update 只更新fields列出的列
	// 不使用整行保存，避免覆盖并发写入的评分字段
	Update(ctx context.Context, book *Book, fields []string) error

	// Delete 删除图书（软删除）
	Delete(ctx context.Context, id uint) error

	// List 分页查询，按创建时间倒序
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 行锁查询（SELECT ... FOR UPDATE），必须在事务中调用
	// 同一本书的评论变更、删除在此串行化
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateRating 写入评分聚合结果，不修改updated_at
	UpdateRating(ctx context.Context, id uint, average float64, count int) error
}

// ListParams 分页查询参数
type ListParams struct {
	Page     int  // 页码(从1开始)
	PageSize int  // 每页数量
	OwnerID  uint // 按发布者过滤，0表示不过滤
}

// MaxOffset 偏移量上限，超大页码不会溢出成负数
const MaxOffset = math.MaxInt32

// Offset 计算偏移量
func (p ListParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.PageSize {
		return MaxOffset
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages 计算总页数
// 没有数据时也返回1页，保证客户端分页器有合法的最大页码
func (p ListParams) TotalPages(total int64) int {
	if p.PageSize <= 0 {
		return 1
	}
	pages := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
