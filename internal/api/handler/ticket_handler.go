package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// TicketHandler 乘车记录 HTTP 处理器
type TicketHandler struct {
	ticketSvc service.TicketService
	exportSvc service.ExportService
}

// NewTicketHandler 创建 TicketHandler
func NewTicketHandler(ticketSvc service.TicketService, exportSvc service.ExportService) *TicketHandler {
	return &TicketHandler{ticketSvc: ticketSvc, exportSvc: exportSvc}
}

// ListTickets 车票列表
// GET /api/v1/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	var req dto.TicketListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.ticketSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// GetTicket 车票详情
// GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// CreateTicket 保存车票
// POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.TicketPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ticket, err := h.ticketSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.Created(c, ticket)
}

// UpdateTicket 更新车票
// PUT /api/v1/tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	var req dto.TicketPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ticket, err := h.ticketSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// DeleteTicket 删除车票
// DELETE /api/v1/tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	if err := h.ticketSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, nil)
}

// BulkDeleteTickets 批量删除车票
// POST /api/v1/tickets/bulk-delete
func (h *TicketHandler) BulkDeleteTickets(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deleted, err := h.ticketSvc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}

// ListYears 库内出现过的年份
// GET /api/v1/tickets/years
func (h *TicketHandler) ListYears(c *gin.Context) {
	years, err := h.ticketSvc.Years(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": years})
}

// ListTrainPrefixes 库内出现过的车次字母前缀
// GET /api/v1/tickets/train-prefixes
func (h *TicketHandler) ListTrainPrefixes(c *gin.Context) {
	prefixes, err := h.ticketSvc.TrainPrefixes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": prefixes})
}

// ListUsedDepartStations 我用过的出发站
// GET /api/v1/tickets/depart-stations
func (h *TicketHandler) ListUsedDepartStations(c *gin.Context) {
	stations, err := h.ticketSvc.UsedDepartStations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": stations})
}

// ExportXLSX 按当前筛选导出车票清单
// GET /api/v1/tickets/export/xlsx
func (h *TicketHandler) ExportXLSX(c *gin.Context) {
	var req dto.TicketListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	raw, err := h.exportSvc.TicketsXLSX(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("乘车记录_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}

// ExportICS 将单张车票导出为日历事件
// GET /api/v1/tickets/:id/export/ics
func (h *TicketHandler) ExportICS(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	raw, err := h.exportSvc.TicketICS(c.Request.Context(), id)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ride-%d.ics"`, id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", raw)
}

// handleTicketError 统一处理车票模块业务错误
func (h *TicketHandler) handleTicketError(c *gin.Context, err error) {
	if verr, ok := apperrors.AsValidation(err); ok {
		response.UnprocessableEntity(c, 13002, "校验未通过", verr.Error())
		return
	}
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(c, 13001, "车票记录不存在")
	case errors.Is(err, apperrors.ErrRegistryNotReady):
		response.Error(c, http.StatusServiceUnavailable, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}
