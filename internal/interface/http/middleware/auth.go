package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/response"
)

const (
	identityKey    = "identity"
	accessTokenKey = "access_token"
)

// TokenBlacklist 已注销Token查询（redis.SessionStore实现）
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证签名与有效期
// 3. 检查Token黑名单
// 4. 将user.Identity注入gin.Context，Handler取出后显式传给UseCase
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := api.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/auth/me", userHandler.Me)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		// 2. 验证Token（签名、过期、签发方）
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 3. 已登出的Token
		revoked, err := m.blacklist.IsRevoked(c.Request.Context(), tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		c.Set(identityKey, user.Identity{UserID: claims.UserID, Email: claims.Email})
		c.Set(accessTokenKey, tokenString)
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetIdentity 从Context获取当前登录用户
func GetIdentity(c *gin.Context) (user.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return user.Identity{}, false
	}
	id, ok := v.(user.Identity)
	return id, ok
}

// MustGetIdentity 用于已经通过RequireAuth的Handler
func MustGetIdentity(c *gin.Context) user.Identity {
	id, ok := GetIdentity(c)
	if !ok {
		panic("identity not found in context")
	}
	return id
}

// GetAccessToken 当前请求携带的Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
