package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），序列化时由DTO层剔除
// 2. 邮箱统一存储为小写去空格形式，唯一性由数据库UNIQUE索引保证
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(name, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Profile 对外公开的用户信息（评论作者、图书发布者）
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Profile 用户公开信息，不含密码
type Profile struct {
	ID    uint
	Name  string
	Email string
}

// Identity 已认证的请求身份
// 由认证中间件从Token解析得到，Handler显式传入UseCase
type Identity struct {
	UserID uint
	Email  string
}

// NormalizeEmail 邮箱标准化：去首尾空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
