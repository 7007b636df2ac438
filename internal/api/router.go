package api

import (
	"strings"
	"unicode/utf8"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/social-feed/config"
	_ "github.com/d60-Lab/social-feed/docs"
	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/service"
)

// feedcontent: 去空白后非空且不超过 280 字符，与服务层规则一致
func feedContent(fl validator.FieldLevel) bool {
	trimmed := strings.TrimSpace(fl.Field().String())
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= 280
}

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, authSvc *service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("feedcontent", feedContent)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.RequestLog())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Otel.Enabled {
		r.Use(otelgin.Middleware("social-feed"))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity(authSvc))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		v1.GET("/feed", h.GlobalFeed)
		v1.GET("/users/:user_id/profile", h.Profile)

		authed := v1.Group("")
		authed.Use(middleware.RequireIdentity())
		{
			authed.GET("/feed/following", h.FollowingFeed)
			authed.POST("/posts", h.CreatePost)
			authed.POST("/posts/:post_id/comments", h.AddComment)
			authed.POST("/posts/:post_id/like", h.ToggleLike)
			authed.POST("/users/:user_id/follow", h.ToggleFollow)
			authed.GET("/activity", h.ActivityHistory)
		}
	}
	return r
}
