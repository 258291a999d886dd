package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/rdb层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 邮箱已存在时返回ErrEmailDuplicate（包括并发插入被唯一索引拦截的情况）
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户（邮箱需已标准化）
	// 如果不存在，返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindProfiles 批量查询用户公开信息，用于填充评论作者、图书发布者
	// 不存在的ID不会出现在结果中
	FindProfiles(ctx context.Context, ids []uint) (map[uint]Profile, error)
}
