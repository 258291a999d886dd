package review

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 评论领域错误定义
var (
	// ErrReviewNotFound 评论不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "评论不存在")

	// ErrInvalidRating 评分超出1-5范围
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "评分必须是1-5之间的整数")

	// ErrReviewDuplicate 已评论过此书
	ErrReviewDuplicate = apperrors.New(apperrors.ErrCodeReviewDuplicate, "您已经评论过这本书")

	// ErrNotAuthor 非评论作者
	ErrNotAuthor = apperrors.New(apperrors.ErrCodeNotAuthor, "只有作者可以修改或删除此评论")

	// ErrAggregateFailed 评分重算失败（事务已回滚）
	ErrAggregateFailed = apperrors.New(apperrors.ErrCodeAggregateFailed, "图书评分更新失败")
)
