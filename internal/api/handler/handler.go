package handler

import (
	"github.com/d60-Lab/social-feed/internal/service"
)

// Handler 聚合全部 HTTP 入口依赖
type Handler struct {
	authSvc     *service.AuthService
	postSvc     *service.PostService
	relSvc      *service.RelationshipService
	feedSvc     *service.FeedService
	profileSvc  *service.ProfileService
	activitySvc *service.ActivityService
}

func New(
	authSvc *service.AuthService,
	postSvc *service.PostService,
	relSvc *service.RelationshipService,
	feedSvc *service.FeedService,
	profileSvc *service.ProfileService,
	activitySvc *service.ActivityService,
) *Handler {
	return &Handler{
		authSvc:     authSvc,
		postSvc:     postSvc,
		relSvc:      relSvc,
		feedSvc:     feedSvc,
		profileSvc:  profileSvc,
		activitySvc: activitySvc,
	}
}
