package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// bookRepository 图书仓储实现
// DDD设计说明：
// 1. 实现domain/book.Repository接口
// 2. 负责BookModel与book.Book之间的转换
// 3. 评分字段只在UpdateRating中写入，其他写操作都不触碰这两列
type bookRepository struct {
	base
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, cfg *config.Config) book.Repository {
	return &bookRepository{base: newBase(db, cfg)}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	model := toBookModel(b)
	if err := db.Create(model).Error; err != nil {
		return wrapDBError(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, wrapDBError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	books := make(map[uint]*book.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var models []BookModel
	if err := db.Where("id IN ?", dedupe(ids)).Find(&models).Error; err != nil {
		return nil, wrapDBError(err, "查询图书失败")
	}
	for i := range models {
		books[models[i].ID] = toBookEntity(&models[i])
	}
	return books, nil
}

// Update 只更新fields中的列
// 学习要点：
// 1. Save会写整行（包括average_rating），与并发的评分重算互相覆盖
// 2. Select(fields).Updates只生成 UPDATE books SET title=?, updated_at=? WHERE id=?
// 3. Select显式列出后零值字段（空字符串、NULL年份）也会被更新
func (r *bookRepository) Update(ctx context.Context, b *book.Book, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	columns := append(append([]string{}, fields...), "updated_at")
	result := db.Model(&BookModel{ID: b.ID}).Select(columns).Updates(toBookModel(b))
	if result.Error != nil {
		return wrapDBError(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 软删除图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Delete(&BookModel{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询
// 学习要点：
// 1. 先Count再查询当前页
// 2. created_at相同的记录用id倒序兜底，保证分页结果稳定
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query := db.Model(&BookModel{})
	if params.OwnerID != 0 {
		query = query.Where("owner_id = ?", params.OwnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询图书总数失败")
	}

	var models []BookModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// LockByID 悲观锁查询（SELECT ... FOR UPDATE）
// 必须在事务中调用，锁在事务提交或回滚时释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model BookModel
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, wrapDBError(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// UpdateRating 写入评分聚合结果
// UpdateColumns不触发钩子也不修改updated_at，评分变化不算图书信息修改
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, average float64, count int) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"average_rating": average,
			"reviews_count":  count,
		}).Error
	if err != nil {
		return wrapDBError(err, "更新图书评分失败")
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Genre:         b.Genre,
		Year:          b.Year,
		OwnerID:       b.OwnerID,
		AverageRating: b.AverageRating,
		ReviewsCount:  b.ReviewsCount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Description:   model.Description,
		Genre:         model.Genre,
		Year:          model.Year,
		OwnerID:       model.OwnerID,
		AverageRating: model.AverageRating,
		ReviewsCount:  model.ReviewsCount,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
