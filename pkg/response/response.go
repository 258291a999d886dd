package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. Message是稳定的、用户友好的提示信息
// 2. Code是业务错误码，HTTP状态码由Code推导，客户端可按任一分支处理
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MessageBody 只包含提示信息的成功响应（如删除成功）
type MessageBody struct {
	Message string `json:"message"`
}

// OK 200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应（资源创建成功）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200响应，仅返回提示信息
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(ctx, actor, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)

	// 服务端错误记录详细日志（包含内部错误），客户端只拿到通用提示
	if appErr.IsInternal() {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", err,
			"request_id", c.GetString("request_id"),
		)
	}

	c.JSON(appErr.HTTPStatus(), ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
