package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// AuthHandler 登录/连接模块 HTTP 处理器
type AuthHandler struct {
	connSvc    service.ConnService
	stationSvc service.StationService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(connSvc service.ConnService, stationSvc service.StationService) *AuthHandler {
	return &AuthHandler{connSvc: connSvc, stationSvc: stationSvc}
}

// Login 数据库登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.connSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleLoginError(c, err)
		return
	}

	// 连接就绪后异步预热车站登记簿
	h.stationSvc.WarmUp()

	response.OK(c, result)
}

// Logout 断开连接
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.connSvc.Logout()
	response.OK(c, nil)
}

// Profile 连接档案与最近使用的数据库
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	response.OK(c, h.connSvc.Profile())
}

// handleLoginError 统一处理登录模块业务错误
// 每类失败带针对性的排查建议
func (h *AuthHandler) handleLoginError(c *gin.Context, err error) {
	var schemaErr *service.SchemaMissingError
	switch {
	case errors.Is(err, service.ErrServerUnreachable),
		errors.Is(err, service.ErrPortClosed):
		response.ErrorWithDetails(c, 502, 11001, "数据库连接失败", err.Error())
	case errors.Is(err, service.ErrAuthFailed):
		response.Unauthorized(c, 11002, err.Error())
	case errors.Is(err, service.ErrDatabaseUnknown):
		response.NotFound(c, 11003, err.Error())
	case errors.As(err, &schemaErr):
		// 前端据此展示“立即建表”修复入口，带上 create_tables 重试
		response.Conflict(c, 11004, schemaErr.Error())
	default:
		response.InternalError(c)
	}
}
