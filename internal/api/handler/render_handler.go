package handler

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/render"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// RenderHandler 车票预览/导出 HTTP 处理器
type RenderHandler struct {
	ticketSvc service.TicketService
	renderer  *render.Renderer
}

// NewRenderHandler 创建 RenderHandler
func NewRenderHandler(ticketSvc service.TicketService, renderer *render.Renderer) *RenderHandler {
	return &RenderHandler{ticketSvc: ticketSvc, renderer: renderer}
}

// Preview 渲染车票预览图，直接返回 PNG
// GET /api/v1/tickets/:id/preview?variant=blue
func (h *RenderHandler) Preview(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	variant := render.Variant(c.DefaultQuery("variant", string(render.VariantBlue)))
	if variant != render.VariantRed && variant != render.VariantBlue {
		response.BadRequest(c, 10001, "底纹样式仅支持 red 或 blue")
		return
	}

	ticket, err := h.ticketSvc.Model(c.Request.Context(), id)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}

	img, err := h.renderer.Compose(ticket, variant, c.Query("encoding_area"))
	if err != nil {
		h.handleRenderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		response.InternalError(c)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Export 渲染并保存到用户选择的路径
// POST /api/v1/tickets/render
func (h *RenderHandler) Export(c *gin.Context) {
	var req dto.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	ticket, err := h.ticketSvc.Model(c.Request.Context(), req.TicketID)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}

	img, err := h.renderer.Compose(ticket, render.Variant(req.Variant), req.EncodingArea)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}

	// 未选择保存路径视为用户取消，静默放弃而不报错
	aborted, err := h.renderer.Export(img, req.FilePath)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}

	result := &dto.RenderResponse{Aborted: aborted}
	if !aborted {
		result.FilePath = req.FilePath
		result.Width = img.Bounds().Dx()
		result.Height = img.Bounds().Dy()
	}
	response.OK(c, result)
}

// handleRenderError 统一处理渲染模块业务错误
func (h *RenderHandler) handleRenderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(c, 13001, "车票记录不存在")
	default:
		response.InternalError(c)
	}
}
