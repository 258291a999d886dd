package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	createReviewUseCase    *appreview.CreateReviewUseCase
	updateReviewUseCase    *appreview.UpdateReviewUseCase
	deleteReviewUseCase    *appreview.DeleteReviewUseCase
	listUserReviewsUseCase *appreview.ListUserReviewsUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(
	createReviewUseCase *appreview.CreateReviewUseCase,
	updateReviewUseCase *appreview.UpdateReviewUseCase,
	deleteReviewUseCase *appreview.DeleteReviewUseCase,
	listUserReviewsUseCase *appreview.ListUserReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUseCase:    createReviewUseCase,
		updateReviewUseCase:    updateReviewUseCase,
		deleteReviewUseCase:    deleteReviewUseCase,
		listUserReviewsUseCase: listUserReviewsUseCase,
	}
}

// CreateReview 发表评论
// @Summary      发表评论
// @Description  每人每本书只能评论一次；成功后图书评分立即重算
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Param        request body dto.CreateReviewRequest true "评分与内容"
// @Success      201 {object} dto.ReviewResponse
// @Failure      400 {object} response.ErrorBody "评分超出范围"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Failure      409 {object} response.ErrorBody "已评论过"
// @Failure      500 {object} response.ErrorBody "评分更新失败"
// @Router       /api/reviews/{bookId} [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	bookID, err := parseID(c, "bookId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.createReviewUseCase.Execute(c.Request.Context(), middleware.MustGetIdentity(c), bookID, appreview.CreateReviewRequest{
		Rating: req.Rating,
		Text:   req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToReviewResponse(view))
}

// UpdateReview 修改评论
// @Summary      修改评论
// @Description  只有作者可以修改；提供的评分会重新校验
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Param        request body dto.UpdateReviewRequest true "要修改的字段"
// @Success      200 {object} dto.ReviewResponse
// @Failure      400 {object} response.ErrorBody "评分超出范围"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "非作者"
// @Failure      404 {object} response.ErrorBody "评论不存在"
// @Router       /api/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.updateReviewUseCase.Execute(c.Request.Context(), middleware.MustGetIdentity(c), id, appreview.UpdateReviewRequest{
		Rating: req.Rating,
		Text:   req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToReviewResponse(view))
}

// DeleteReview 删除评论
// @Summary      删除评论
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Success      200 {object} response.MessageBody
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "非作者"
// @Failure      404 {object} response.ErrorBody "评论不存在"
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteReviewUseCase.Execute(c.Request.Context(), middleware.MustGetIdentity(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "评论已删除")
}

// ListUserReviews 某用户的全部评论
// @Summary      用户评论列表
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        userId path int true "用户ID"
// @Success      200 {object} dto.ReviewListResponse
// @Failure      400 {object} response.ErrorBody "ID格式错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/reviews/user/{userId} [get]
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}

	views, err := h.listUserReviewsUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToReviewListResponse(views))
}
