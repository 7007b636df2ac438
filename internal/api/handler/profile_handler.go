package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/response"
)

// Profile 个人页聚合
// @Summary 个人页：帖子 / 赞过 / 评论 / 统计 / 最近活动
// @Tags 用户
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id}/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	userID := c.Param("user_id")
	profile, err := h.profileSvc.UserProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// ActivityHistory 自己的活动时间线
// @Summary 活动时间线，新的在前
// @Tags 用户
// @Produce json
// @Param limit query int false "数量上限" default(50)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/activity [get]
func (h *Handler) ActivityHistory(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.activitySvc.History(c.Request.Context(), ident.ID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"activity": rows})
}
