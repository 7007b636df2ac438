package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type contentRequest struct {
	Content string `json:"content" binding:"required,feedcontent"`
}

// CreatePost 发帖
// @Summary 创建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body contentRequest true "帖子正文"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	postID, err := h.postSvc.CreatePost(c.Request.Context(), req.Content, ident.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"postId": postID})
}

// AddComment 评论
// @Summary 给帖子追加评论
// @Tags 帖子
// @Accept json
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param request body contentRequest true "评论正文"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	postID := c.Param("post_id")
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	commentID, err := h.postSvc.AddComment(c.Request.Context(), postID, req.Content, ident.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"commentId": commentID})
}

// ToggleLike 点赞翻转
// @Summary 点赞 / 取消点赞
// @Tags 帖子
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	postID := c.Param("post_id")
	result, err := h.relSvc.ToggleLike(c.Request.Context(), postID, ident.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
