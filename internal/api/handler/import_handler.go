package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/pdfimport"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// ImportHandler PDF 车票导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// Parse 上传 PDF 并解析字段
// POST /api/v1/tickets/import/parse
func (h *ImportHandler) Parse(c *gin.Context) {
	var req dto.ImportParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.importSvc.Parse(c.Request.Context(), &req)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, result)
}

// Unlock 解锁字段以允许编辑
// POST /api/v1/tickets/import/unlock
func (h *ImportHandler) Unlock(c *gin.Context) {
	var req dto.ImportUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.importSvc.Unlock(c.Request.Context(), &req)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, result)
}

// Commit 校验并落库
// POST /api/v1/tickets/import/commit
func (h *ImportHandler) Commit(c *gin.Context) {
	var req dto.ImportCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.importSvc.Commit(c.Request.Context(), &req)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.Created(c, result)
}

// Cancel 放弃导入会话
// DELETE /api/v1/tickets/import/:session_id
func (h *ImportHandler) Cancel(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.BadRequest(c, 10001, "会话 ID 不能为空")
		return
	}
	h.importSvc.Cancel(sessionID)
	response.OK(c, nil)
}

// handleImportError 统一处理导入模块业务错误
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	if verr, ok := apperrors.AsValidation(err); ok {
		response.UnprocessableEntity(c, 16004, "校验未通过", verr.Error())
		return
	}
	switch {
	case errors.Is(err, service.ErrImportBadContent):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, pdfimport.ErrSessionNotFound):
		response.NotFound(c, 16002, err.Error())
	case errors.Is(err, pdfimport.ErrFieldLocked),
		errors.Is(err, pdfimport.ErrAlreadySaved):
		response.Conflict(c, 16003, err.Error())
	case errors.Is(err, apperrors.ErrRegistryNotReady):
		response.Error(c, http.StatusServiceUnavailable, 16005, err.Error())
	default:
		response.InternalError(c)
	}
}
