//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"log/slog"

	"github.com/google/wire"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	appreview "github.com/xiebiao/bookreview/internal/application/review"
	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/tx"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/messaging"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/internal/interface/grpcserver"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/internal/interface/http/router"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/ratelimit"
)

// infrastructureSet 数据库、Redis、消息发布
var infrastructureSet = wire.NewSet(
	rdb.NewDB,
	redis.NewClient,
	messaging.NewEventPublisher,
	provideRateLimiter,
	provideDBPinger,
)

// repositorySet 仓储与事务
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewBookRepository,
	rdb.NewReviewRepository,
	rdb.NewTxManager,
	wire.Bind(new(tx.Manager), new(*rdb.TxManager)),
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
	provideRatingWriter,
	review.NewAggregator,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewGetProfileUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appreview.NewCreateReviewUseCase,
	appreview.NewUpdateReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appreview.NewListUserReviewsUseCase,
)

// interfaceSet HTTP与gRPC接口
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	router.New,
	grpcserver.NewHealthServer,
)

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
}

func provideUserService(cfg *config.Config, repo user.Repository) user.Service {
	return user.NewService(repo, cfg.Auth.BcryptCost)
}

// provideRatingWriter 评分聚合结果写回books表
func provideRatingWriter(books book.Repository) review.RatingWriter {
	return books
}

// provideRateLimiter 登录注册限流器，未启用时返回nil
func provideRateLimiter(cfg *config.Config) (*ratelimit.KeyedRateLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}
	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	return limiter, limiter.Stop
}

func provideDBPinger(db *gorm.DB) (grpcserver.Pinger, error) {
	return db.DB()
}

// InitializeApp 组装整个应用
func InitializeApp(cfg *config.Config, log *slog.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
