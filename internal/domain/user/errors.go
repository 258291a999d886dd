package user

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrEmailDuplicate     = apperrors.ErrEmailDuplicate
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeInvalidParams, "密码长度应为6-72个字符")
	ErrNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名不能为空")
)
