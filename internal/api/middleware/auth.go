package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

const identityKey = "identity"

// Identity 尝试解析 Bearer 令牌并挂到请求上下文。
// 解析失败或缺失不拦截：读路径允许匿名，写路径用 RequireIdentity 把关。
func Identity(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if ident, err := auth.Identify(c.Request.Context(), token); err == nil {
				c.Set(identityKey, ident)
			}
		}
		c.Next()
	}
}

// RequireIdentity 写路径硬前置：没有身份直接 401
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom 取出请求身份；匿名时 ok 为 false
func IdentityFrom(c *gin.Context) (*service.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*service.Identity)
	return ident, ok
}
