package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/response"
)

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// GlobalFeed 全局信息流；匿名可读
// @Summary 全局信息流
// @Tags 信息流
// @Produce json
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} response.Response
// @Router /api/v1/feed [get]
func (h *Handler) GlobalFeed(c *gin.Context) {
	limit, offset := pageParams(c)
	viewerID := ""
	if ident, ok := middleware.IdentityFrom(c); ok {
		viewerID = ident.ID
	}
	posts, err := h.feedSvc.GlobalFeed(c.Request.Context(), viewerID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

// FollowingFeed 关注流；需要身份
// @Summary 关注流
// @Tags 信息流
// @Produce json
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/feed/following [get]
func (h *Handler) FollowingFeed(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	limit, offset := pageParams(c)
	posts, err := h.feedSvc.FollowingFeed(c.Request.Context(), ident.ID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}
