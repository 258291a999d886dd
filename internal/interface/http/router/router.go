// Package router 注册HTTP路由与全局中间件
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/ratelimit"
)

// New 创建Gin引擎并注册全部路由
//
// 路由一览：
//
//	POST   /api/auth/signup            注册（限流）
//	POST   /api/auth/login             登录（限流）
//	GET    /api/auth/me                当前用户（需登录）
//	POST   /api/auth/logout            退出登录（需登录）
//	GET    /api/books                  图书列表
//	GET    /api/books/:id              图书详情
//	POST   /api/books                  发布图书（需登录）
//	PUT    /api/books/:id              修改图书（发布者）
//	DELETE /api/books/:id              删除图书（发布者）
//	POST   /api/reviews/:bookId        发表评论（需登录）
//	PUT    /api/reviews/:id            修改评论（作者）
//	DELETE /api/reviews/:id            删除评论（作者）
//	GET    /api/reviews/user/:userId   用户评论列表（需登录）
func New(
	cfg *config.Config,
	log *slog.Logger,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	reviewHandler *handler.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.KeyedRateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.Tracing(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 生产环境不暴露接口文档
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	requireAuth := authMiddleware.RequireAuth()

	auth := api.Group("/auth")
	{
		auth.POST("/signup", middleware.RateLimit(limiter), userHandler.Signup)
		auth.POST("/login", middleware.RateLimit(limiter), userHandler.Login)
		auth.GET("/me", requireAuth, userHandler.Me)
		auth.POST("/logout", requireAuth, userHandler.Logout)
	}

	books := api.Group("/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.GET("/:id", bookHandler.GetBook)
		books.POST("", requireAuth, bookHandler.CreateBook)
		books.PUT("/:id", requireAuth, bookHandler.UpdateBook)
		books.DELETE("/:id", requireAuth, bookHandler.DeleteBook)
	}

	reviews := api.Group("/reviews")
	reviews.Use(requireAuth)
	{
		reviews.GET("/user/:userId", reviewHandler.ListUserReviews)
		reviews.POST("/:bookId", reviewHandler.CreateReview)
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	return r
}
