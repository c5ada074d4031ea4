package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// RequireDB 数据库就绪检查中间件
// 登录成功前所有业务路由返回 503，提示先建立数据库连接
func RequireDB(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ready() {
			response.Error(c, http.StatusServiceUnavailable, 10004, "尚未连接数据库，请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}
