package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/response"
)

// ToggleFollow 关注翻转
// @Summary 关注 / 取消关注
// @Tags 关系链
// @Produce json
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/users/{user_id}/follow [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	followingID := c.Param("user_id")
	isFollowing, err := h.relSvc.ToggleFollow(c.Request.Context(), ident.ID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"isFollowing": isFollowing})
}
