package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// userRepository 用户仓储实现
type userRepository struct {
	base
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB, cfg *config.Config) user.Repository {
	return &userRepository{base: newBase(db, cfg)}
}

// Create 创建用户
// 并发注册同一邮箱时，后插入的一方被唯一索引拦截，返回ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	model := &UserModel{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}

	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return wrapDBError(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model UserModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, wrapDBError(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var model UserModel
	if err := db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, wrapDBError(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindProfiles 批量查询，只取公开字段
func (r *userRepository) FindProfiles(ctx context.Context, ids []uint) (map[uint]user.Profile, error) {
	profiles := make(map[uint]user.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var models []UserModel
	if err := db.Select("id", "name", "email").Where("id IN ?", dedupe(ids)).Find(&models).Error; err != nil {
		return nil, wrapDBError(err, "查询用户失败")
	}

	for _, m := range models {
		profiles[m.ID] = user.Profile{ID: m.ID, Name: m.Name, Email: m.Email}
	}
	return profiles, nil
}

func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Password:  model.Password,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
