package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/pkg/jwt"
)

// SessionStore 会话存储（redis.SessionStore实现）
type SessionStore interface {
	SaveSession(ctx context.Context, sess redis.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token
// 3. 保存会话到Redis（失败只记录日志，不影响登录）
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	sessions    SessionStore
	log         *slog.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	log *slog.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		sessions:    sessions,
		log:         log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	// 1. 验证邮箱密码
	u, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成Token
	token, err := uc.jwtManager.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话，有效期与Token一致
	sess := redis.Session{
		UserID:    u.ID,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		LoginAt:   time.Now(),
	}
	if err := uc.sessions.SaveSession(ctx, sess, uc.jwtManager.Expire()); err != nil {
		uc.log.WarnContext(ctx, "保存登录会话失败", "user_id", u.ID, "error", err)
	}

	return &AuthResult{User: u, Token: token}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessions   SessionStore
	jwtManager *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, jwtManager: jwtManager}
}

// Execute 执行登出
// Token加入黑名单，保留到它本来的过期时间
func (uc *LogoutUseCase) Execute(ctx context.Context, identity user.Identity, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, identity.UserID); err != nil {
		return err
	}

	ttl := uc.jwtManager.Expire()
	if claims, err := uc.jwtManager.ParseToken(accessToken); err == nil && claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return uc.sessions.Revoke(ctx, accessToken, ttl)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}
