package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/pkg/jwt"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// SessionAuth 会话认证中间件
// 从 Authorization: Bearer <token> 中提取并验证登录时签发的会话令牌
func SessionAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "会话已过期，请重新登录")
			c.Abort()
			return
		}

		// 将连接身份注入上下文
		c.Set("database", claims.Database)
		c.Set("db_user", claims.User)

		c.Next()
	}
}
