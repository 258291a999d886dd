package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// parseID 解析路径中的ID，必须是正整数
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidID
	}
	return uint(id), nil
}

// bindError 参数绑定或校验失败
func bindError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
}
