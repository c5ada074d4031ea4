package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// MustGetID 从路径参数解析数字主键
// 解析失败时已写入 400 响应，调用方直接 return
func MustGetID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "ID 无效")
		return 0, false
	}
	return uint(id), true
}
