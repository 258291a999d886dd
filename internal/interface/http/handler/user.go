package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	registerUseCase   *appuser.RegisterUseCase
	loginUseCase      *appuser.LoginUseCase
	logoutUseCase     *appuser.LogoutUseCase
	getProfileUseCase *appuser.GetProfileUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	getProfileUseCase *appuser.GetProfileUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase:   registerUseCase,
		loginUseCase:      loginUseCase,
		logoutUseCase:     logoutUseCase,
		getProfileUseCase: getProfileUseCase,
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Description  注册成功后直接返回Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Success      201 {object} dto.AuthResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "邮箱已被注册"
// @Failure      429 {object} response.ErrorBody "请求过于频繁"
// @Router       /api/auth/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.AuthResponse{
		User:  dto.ToUserResponse(result.User),
		Token: result.Token,
	})
}

// Login 用户登录
// @Summary      用户登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} dto.AuthResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "邮箱或密码错误"
// @Failure      429 {object} response.ErrorBody "请求过于频繁"
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AuthResponse{
		User:  dto.ToUserResponse(result.User),
		Token: result.Token,
	})
}

// Me 当前登录用户
// @Summary      当前用户
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MeResponse
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      404 {object} response.ErrorBody "用户不存在"
// @Router       /api/auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.getProfileUseCase.Execute(c.Request.Context(), middleware.MustGetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MeResponse{User: dto.ToUserResponse(u)})
}

// Logout 退出登录
// @Summary      退出登录
// @Description  当前Token加入黑名单，之后使用该Token的请求返回401
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.MessageBody
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)
	if err := h.logoutUseCase.Execute(c.Request.Context(), identity, middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "已退出登录")
}
