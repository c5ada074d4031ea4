package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// StationHandler 车站登记簿 HTTP 处理器
type StationHandler struct {
	stationSvc service.StationService
}

// NewStationHandler 创建 StationHandler
func NewStationHandler(stationSvc service.StationService) *StationHandler {
	return &StationHandler{stationSvc: stationSvc}
}

// ListStations 车站列表
// GET /api/v1/stations
func (h *StationHandler) ListStations(c *gin.Context) {
	var req dto.StationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.stationSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// SearchStations 增量搜索
// GET /api/v1/stations/search
func (h *StationHandler) SearchStations(c *gin.Context) {
	result, err := h.stationSvc.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetStation 车站详情
// GET /api/v1/stations/:id
func (h *StationHandler) GetStation(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	station, err := h.stationSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleStationError(c, err)
		return
	}
	response.OK(c, station)
}

// CreateStation 登记车站
// POST /api/v1/stations
func (h *StationHandler) CreateStation(c *gin.Context) {
	var req dto.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	station, err := h.stationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStationError(c, err)
		return
	}
	response.Created(c, station)
}

// UpdateStation 更新车站
// PUT /api/v1/stations/:id
func (h *StationHandler) UpdateStation(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	var req dto.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	station, err := h.stationSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleStationError(c, err)
		return
	}
	response.OK(c, station)
}

// DeleteStation 删除车站
// DELETE /api/v1/stations/:id
func (h *StationHandler) DeleteStation(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	if err := h.stationSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleStationError(c, err)
		return
	}
	response.OK(c, nil)
}

// ReloadStations 重建内存登记簿
// POST /api/v1/stations/reload
func (h *StationHandler) ReloadStations(c *gin.Context) {
	if err := h.stationSvc.Reload(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// handleStationError 统一处理车站模块业务错误
func (h *StationHandler) handleStationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStationNotFound):
		response.NotFound(c, 12001, "车站不存在")
	case errors.Is(err, service.ErrStationExists):
		response.Conflict(c, 12002, err.Error())
	default:
		response.InternalError(c)
	}
}
