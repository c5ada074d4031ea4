package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// GeoHandler 地理编码 HTTP 处理器
type GeoHandler struct {
	geoSvc service.GeoService
}

// NewGeoHandler 创建 GeoHandler
func NewGeoHandler(geoSvc service.GeoService) *GeoHandler {
	return &GeoHandler{geoSvc: geoSvc}
}

// Lookup 按站名查询行政区划与坐标
// GET /api/v1/geo/lookup
func (h *GeoHandler) Lookup(c *gin.Context) {
	var req dto.GeoLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.geoSvc.Lookup(c.Request.Context(), req.StationName)
	if err != nil {
		h.handleGeoError(c, err)
		return
	}
	response.OK(c, result)
}

// handleGeoError 统一处理地理编码业务错误
// 不同失败类别给出不同的操作指引，由前端原样展示
func (h *GeoHandler) handleGeoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGeoKeyMissing):
		response.Error(c, http.StatusPreconditionFailed, 15001, err.Error())
	case errors.Is(err, service.ErrGeoKeyInvalid):
		response.Error(c, http.StatusForbidden, 15002, err.Error())
	case errors.Is(err, service.ErrGeoQuotaExceeded):
		response.Error(c, http.StatusTooManyRequests, 15003, err.Error())
	case errors.Is(err, service.ErrGeoNoResult):
		response.NotFound(c, 15004, err.Error())
	default:
		response.ErrorWithDetails(c, http.StatusBadGateway, 15000, "地理编码服务异常", err.Error())
	}
}
