package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	appreview "github.com/xiebiao/bookreview/internal/application/review"
	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/internal/interface/http/router"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/ratelimit"
	"github.com/xiebiao/bookreview/pkg/response"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// memSessions 内存版会话与黑名单
type memSessions struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (s *memSessions) SaveSession(context.Context, redis.Session, time.Duration) error { return nil }

func (s *memSessions) DeleteSession(context.Context, uint) error { return nil }

func (s *memSessions) Revoke(_ context.Context, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
	return nil
}

func (s *memSessions) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token], nil
}

func newServer(t *testing.T, limiter *ratelimit.KeyedRateLimiter) *gin.Engine {
	t.Helper()

	db := rdbtest.New(t)
	cfg := rdbtest.Config()
	cfg.Server.Mode = "test"
	cfg.Metrics = config.MetricsConfig{Enabled: true, Path: "/metrics"}
	cfg.CORS = config.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := rdb.NewUserRepository(db, cfg)
	books := rdb.NewBookRepository(db, cfg)
	reviews := rdb.NewReviewRepository(db, cfg)
	txManager := rdb.NewTxManager(db)
	aggregator := review.NewAggregator(reviews, books)
	events := event.NopPublisher{}
	sessions := &memSessions{revoked: map[string]bool{}}
	jm := jwt.NewManager("test-secret", time.Hour)

	userService := user.NewService(users, bcrypt.MinCost)
	bookService := book.NewService(books)

	userHandler := handler.NewUserHandler(
		appuser.NewRegisterUseCase(userService, jm),
		appuser.NewLoginUseCase(userService, jm, sessions, log),
		appuser.NewLogoutUseCase(sessions, jm),
		appuser.NewGetProfileUseCase(userService),
	)
	bookHandler := handler.NewBookHandler(
		appbook.NewCreateBookUseCase(bookService, users),
		appbook.NewUpdateBookUseCase(bookService, users),
		appbook.NewDeleteBookUseCase(txManager, books, reviews, events),
		appbook.NewListBooksUseCase(bookService, users),
		appbook.NewGetBookUseCase(bookService, reviews, users),
	)
	reviewHandler := handler.NewReviewHandler(
		appreview.NewCreateReviewUseCase(txManager, books, reviews, aggregator, users, events),
		appreview.NewUpdateReviewUseCase(txManager, books, reviews, aggregator, users, events),
		appreview.NewDeleteReviewUseCase(txManager, books, reviews, aggregator, events),
		appreview.NewListUserReviewsUseCase(reviews, books, users),
	)

	return router.New(cfg, log, userHandler, bookHandler, reviewHandler,
		middleware.NewAuthMiddleware(jm, sessions), limiter)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	assert.Equal(t, code, decode[response.ErrorBody](t, w).Code)
}

func signup(t *testing.T, r http.Handler, name string) dto.AuthResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.AuthResponse](t, w)
}

func TestBookReviewScenario(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "ann")
	b := signup(t, r, "bob")
	c := signup(t, r, "cat")

	// A发布图书
	w := do(t, r, http.MethodPost, "/api/books", a.Token, gin.H{"title": "Dune", "author": "Herbert"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.BookEnvelope](t, w).Book
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, a.User.ID, created.AddedBy.ID)
	assert.Equal(t, 0.0, created.AverageRating)
	assert.Equal(t, 0, created.ReviewsCount)
	bookPath := fmt.Sprintf("/api/books/%d", created.ID)

	// B评论，评分立即聚合
	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/reviews/%d", created.ID), b.Token, gin.H{"rating": 5, "reviewText": "great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rv := decode[dto.ReviewResponse](t, w)
	assert.Equal(t, b.User.ID, rv.User.ID)
	assert.Equal(t, created.ID, rv.BookID)

	w = do(t, r, http.MethodGet, bookPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.BookDetailEnvelope](t, w).Book
	assert.Equal(t, 5.0, detail.AverageRating)
	assert.Equal(t, 1, detail.ReviewsCount)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "bob", detail.Reviews[0].User.Name)

	// 同一本书第二次评论
	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/reviews/%d", created.ID), b.Token, gin.H{"rating": 3})
	assertError(t, w, http.StatusConflict, apperrors.ErrCodeReviewDuplicate)

	// A修改书名，发布者与评分不变
	w = do(t, r, http.MethodPut, bookPath, a.Token, gin.H{"title": "Dune Messiah"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.BookEnvelope](t, w).Book
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "Herbert", updated.Author)
	assert.Equal(t, a.User.ID, updated.AddedBy.ID)
	assert.Equal(t, 5.0, updated.AverageRating)

	// C不是发布者
	w = do(t, r, http.MethodDelete, bookPath, c.Token, nil)
	assertError(t, w, http.StatusForbidden, apperrors.ErrCodeNotOwner)

	// 列表读取存储的聚合值
	w = do(t, r, http.MethodGet, "/api/books", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListBooksResponse](t, w)
	require.Len(t, list.Books, 1)
	assert.Equal(t, 5.0, list.Books[0].AverageRating)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, int64(1), list.TotalBooks)

	// 用户评论列表带图书摘要
	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", b.User.ID), c.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[dto.ReviewListResponse](t, w)
	require.Len(t, mine.Reviews, 1)
	require.NotNil(t, mine.Reviews[0].Book)
	assert.Equal(t, "Dune Messiah", mine.Reviews[0].Book.Title)

	// 只有作者能删评论
	reviewPath := fmt.Sprintf("/api/reviews/%d", rv.ID)
	w = do(t, r, http.MethodDelete, reviewPath, c.Token, nil)
	assertError(t, w, http.StatusForbidden, apperrors.ErrCodeNotAuthor)

	w = do(t, r, http.MethodDelete, reviewPath, b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, bookPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail = decode[dto.BookDetailEnvelope](t, w).Book
	assert.Equal(t, 0.0, detail.AverageRating)
	assert.Equal(t, 0, detail.ReviewsCount)
	assert.Empty(t, detail.Reviews)

	// 发布者删除图书
	w = do(t, r, http.MethodDelete, bookPath, a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, bookPath, "", nil)
	assertError(t, w, http.StatusNotFound, apperrors.ErrCodeBookNotFound)
}

func TestReviewValidation(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "ann")

	w := do(t, r, http.MethodPost, "/api/books", a.Token, gin.H{"title": "Dune", "author": "Herbert"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[dto.BookEnvelope](t, w).Book.ID

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/reviews/%d", id), a.Token, gin.H{"rating": 6})
	assertError(t, w, http.StatusBadRequest, apperrors.ErrCodeInvalidRating)

	w = do(t, r, http.MethodPost, "/api/reviews/999", a.Token, gin.H{"rating": 4})
	assertError(t, w, http.StatusNotFound, apperrors.ErrCodeBookNotFound)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/api/reviews/%d", id), a.Token, gin.H{"rating": 4})
	require.Equal(t, http.StatusCreated, w.Code)
	rid := decode[dto.ReviewResponse](t, w).ID

	w = do(t, r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", rid), a.Token, gin.H{"rating": 0})
	assertError(t, w, http.StatusBadRequest, apperrors.ErrCodeInvalidRating)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", rid), a.Token, gin.H{"rating": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[dto.ReviewResponse](t, w).Rating)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/books/%d", id), "", nil)
	assert.Equal(t, 2.0, decode[dto.BookDetailEnvelope](t, w).Book.AverageRating)
}

func TestBookValidation(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "ann")

	w := do(t, r, http.MethodPost, "/api/books", a.Token, gin.H{"title": "   ", "author": "Herbert"})
	assertError(t, w, http.StatusBadRequest, apperrors.ErrCodeBindError)

	w = do(t, r, http.MethodGet, "/api/books?page=abc", "", nil)
	assertError(t, w, http.StatusBadRequest, apperrors.ErrCodeBindError)

	w = do(t, r, http.MethodGet, "/api/books/abc", "", nil)
	assertError(t, w, http.StatusBadRequest, apperrors.ErrCodeInvalidID)

	w = do(t, r, http.MethodGet, "/api/books?page=7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListBooksResponse](t, w)
	assert.Empty(t, list.Books)
	assert.Equal(t, 7, list.Page)
	assert.Equal(t, 1, list.TotalPages)

	// year显式置空
	w = do(t, r, http.MethodPost, "/api/books", a.Token, gin.H{"title": "Dune", "author": "Herbert", "year": 1965})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.BookEnvelope](t, w).Book
	require.NotNil(t, created.Year)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/api/books/%d", created.ID), a.Token, gin.H{"year": nil})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[dto.BookEnvelope](t, w).Book.Year)
}

func TestAuthFlow(t *testing.T) {
	r := newServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assertError(t, w, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assertError(t, w, http.StatusUnauthorized, apperrors.ErrCodeInvalidToken)

	w = do(t, r, http.MethodPost, "/api/books", "not-a-jwt", gin.H{"title": "Dune", "author": "Herbert"})
	assertError(t, w, http.StatusUnauthorized, apperrors.ErrCodeInvalidToken)

	a := signup(t, r, "ann")
	w = do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "again", "email": "ANN@example.com", "password": "secret123",
	})
	assertError(t, w, http.StatusConflict, apperrors.ErrCodeEmailDuplicate)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "wrong-pass"})
	assertError(t, w, http.StatusUnauthorized, apperrors.ErrCodeInvalidCredentials)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.AuthResponse](t, w)
	assert.Equal(t, a.User.ID, login.User.ID)

	w = do(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@example.com", decode[dto.MeResponse](t, w).User.Email)

	w = do(t, r, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	assertError(t, w, http.StatusUnauthorized, apperrors.ErrCodeTokenExpired)

	// 注册时签发的Token不受影响
	w = do(t, r, http.MethodGet, "/api/auth/me", a.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2, time.Minute)
	t.Cleanup(limiter.Stop)
	r := newServer(t, limiter)

	body := gin.H{"email": "nobody@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		w := do(t, r, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := do(t, r, http.MethodPost, "/api/auth/login", "", body)
	assertError(t, w, http.StatusTooManyRequests, apperrors.ErrCodeTooManyRequests)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 公开读接口不限流
	w = do(t, r, http.MethodGet, "/api/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInfrastructureRoutes(t *testing.T) {
	r := newServer(t, nil)

	w := do(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/books", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
