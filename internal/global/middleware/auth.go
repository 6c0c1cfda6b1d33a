package middleware

import (
	"strings"

	"sports-activity-platform/internal/global/jwt"
	"sports-activity-platform/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Auth 解析 Bearer 令牌并把用户身份放入上下文
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		c.Set("payload", payload)
		c.Next()
	}
}
