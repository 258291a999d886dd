package dto

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/user"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100" example:"Ann"`
	Email    string `json:"email" binding:"required,max=255" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UserResponse 用户信息（不含密码）
type UserResponse struct {
	ID        uint      `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ann"`
	Email     string    `json:"email" example:"ann@example.com"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// MeResponse 当前用户
type MeResponse struct {
	User UserResponse `json:"user"`
}

// ProfileResponse 用户公开信息（图书发布者、评论作者）
type ProfileResponse struct {
	ID    uint   `json:"id" example:"1"`
	Name  string `json:"name" example:"Ann"`
	Email string `json:"email" example:"ann@example.com"`
}

// ToUserResponse 实体转响应
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToProfileResponse 公开信息转响应
func ToProfileResponse(p user.Profile) ProfileResponse {
	return ProfileResponse{ID: p.ID, Name: p.Name, Email: p.Email}
}
