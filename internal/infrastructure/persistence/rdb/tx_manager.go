package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/tx"
)

// txKey 事务句柄在context中的key
type txKey struct{}

// TxManager 事务管理器
// 事务句柄放入context向下传递，各Repository通过dbFromContext取出，
// 因此同一个fn内调用的所有Repository方法都在同一事务中执行。
type TxManager struct {
	db *gorm.DB
}

var _ tx.Manager = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx 在事务中执行fn
// ctx中已有事务时直接复用（不开启嵌套事务）
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, txDB))
	})
}

// dbFromContext 优先使用context中的事务句柄
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if txDB, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return txDB
	}
	return fallback
}
