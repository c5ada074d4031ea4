package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

// CollectionHandler 收藏夹 HTTP 处理器
type CollectionHandler struct {
	collectionSvc service.CollectionService
}

// NewCollectionHandler 创建 CollectionHandler
func NewCollectionHandler(collectionSvc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionSvc: collectionSvc}
}

// ListCollections 收藏夹列表
// GET /api/v1/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	var req dto.CollectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.collectionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// GetCollection 收藏夹详情
// GET /api/v1/collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	collection, err := h.collectionSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, collection)
}

// GetCover 收藏夹封面图片
// GET /api/v1/collections/:id/cover
func (h *CollectionHandler) GetCover(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	cover, err := h.collectionSvc.Cover(c.Request.Context(), id)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	if len(cover) == 0 {
		response.NotFound(c, 14003, "该收藏夹没有封面")
		return
	}
	c.Data(http.StatusOK, "image/jpeg", cover)
}

// CreateCollection 新建收藏夹
// POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	collection, err := h.collectionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.Created(c, collection)
}

// UpdateCollection 更新收藏夹
// PUT /api/v1/collections/:id
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	collection, err := h.collectionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, collection)
}

// DeleteCollection 删除收藏夹
// DELETE /api/v1/collections/:id
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	if err := h.collectionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, nil)
}

// BulkDeleteCollections 批量删除收藏夹
// POST /api/v1/collections/bulk-delete
func (h *CollectionHandler) BulkDeleteCollections(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deleted, err := h.collectionSvc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}

// ReorderCollections 拖拽排序结果提交
// PUT /api/v1/collections/reorder
func (h *CollectionHandler) ReorderCollections(c *gin.Context) {
	var req dto.ReorderCollectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.collectionSvc.Reorder(c.Request.Context(), &req); err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddTickets 添加车票到收藏夹
// POST /api/v1/collections/:id/tickets
func (h *CollectionHandler) AddTickets(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	var req dto.CollectionTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.collectionSvc.AddTickets(c.Request.Context(), id, req.TicketIDs)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, result)
}

// RemoveTickets 从收藏夹移除车票
// DELETE /api/v1/collections/:id/tickets
func (h *CollectionHandler) RemoveTickets(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	var req dto.CollectionTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	removed, err := h.collectionSvc.RemoveTickets(c.Request.Context(), id, req.TicketIDs)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OK(c, gin.H{"removed": removed})
}

// ListTickets 收藏夹内车票列表
// GET /api/v1/collections/:id/tickets
func (h *CollectionHandler) ListTickets(c *gin.Context) {
	id, ok := MustGetID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	list, total, err := h.collectionSvc.ListTickets(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.handleCollectionError(c, err)
		return
	}
	response.OKPage(c, list, total, page, pageSize)
}

// handleCollectionError 统一处理收藏夹模块业务错误
func (h *CollectionHandler) handleCollectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCollectionNotFound):
		response.NotFound(c, 14001, "收藏夹不存在")
	case errors.Is(err, service.ErrCoverInvalid),
		errors.Is(err, service.ErrCoverTooLarge):
		response.BadRequest(c, 14002, err.Error())
	default:
		response.InternalError(c)
	}
}
