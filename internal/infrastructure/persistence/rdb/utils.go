package rdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// base Repository公共部分
type base struct {
	db      *gorm.DB
	timeout time.Duration
}

func newBase(db *gorm.DB, cfg *config.Config) base {
	return base{db: db, timeout: cfg.Database.QueryTimeout}
}

// conn 返回带超时的数据库句柄（事务中返回事务句柄）
// 每次存储操作都有上限，超时以ErrStoreTimeout返回
func (b base) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	db := dbFromContext(ctx, b.db)
	if b.timeout <= 0 {
		return db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return db.WithContext(ctx), cancel
}

// isDuplicateError 判断是否为唯一索引冲突
// TranslateError开启后MySQL/PostgreSQL驱动返回gorm.ErrDuplicatedKey，
// 字符串匹配兜底未翻译的驱动错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // MySQL 1062
		strings.Contains(msg, "SQLSTATE 23505") || // PostgreSQL unique_violation
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") // SQLite
}

// wrapDBError 把底层错误转换为AppError
func wrapDBError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.WrapCode(err, apperrors.ErrCodeStoreTimeout, apperrors.ErrStoreTimeout.Message)
	}
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, message)
}
