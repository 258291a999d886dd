package book

import (
	"context"
)

// Service 图书领域服务
// 删除涉及评论级联，需要事务，由application层的DeleteBookUseCase编排
type Service interface {
	// Create 发布图书，发布者为ownerID
	Create(ctx context.Context, ownerID uint, draft Draft) (*Book, error)

	// GetByID 查询图书
	GetByID(ctx context.Context, id uint) (*Book, error)

	// Update 部分更新，仅发布者可操作
	Update(ctx context.Context, actorID, id uint, patch Patch) (*Book, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID uint, draft Draft) (*Book, error) {
	b, err := NewBook(draft, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// Update 部分更新
// 业务规则：
// 1. 图书必须存在（404）
// 2. 只有发布者可以修改（403）
// 3. 只更新请求中提供的字段，评分字段不受影响
func (s *service) Update(ctx context.Context, actorID, id uint, patch Patch) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CheckOwner(b, actorID); err != nil {
		return nil, err
	}

	fields, err := b.Apply(patch)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return b, nil
	}

	if err := s.repo.Update(ctx, b, fields); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = PageSize
	}
	return s.repo.List(ctx, params)
}

// CheckOwner 发布者校验
func CheckOwner(b *Book, actorID uint) error {
	if !b.IsOwnedBy(actorID) {
		return ErrNotOwner
	}
	return nil
}
