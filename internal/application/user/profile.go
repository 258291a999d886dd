package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
)

// GetProfileUseCase 查询当前登录用户
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute Token有效但用户已不存在时返回ErrUserNotFound
func (uc *GetProfileUseCase) Execute(ctx context.Context, identity user.Identity) (*user.User, error) {
	return uc.userService.GetByID(ctx, identity.UserID)
}
