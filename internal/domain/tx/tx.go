// Package tx 定义事务管理接口
// 实现位于infrastructure/persistence/rdb，事务句柄通过context向下传递，
// Repository从context中取出事务执行SQL。
package tx

import "context"

// Manager 事务管理器
type Manager interface {
	// WithTx 在事务中执行fn，fn返回错误或panic时回滚，否则提交
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
