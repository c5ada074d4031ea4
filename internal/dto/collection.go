package dto

// ── 收藏夹模块 DTO ──

// CreateCollectionRequest 新建收藏夹请求
// CoverImage 为 base64 编码的图片原始字节（jpg/png），服务端校验并压缩
type CreateCollectionRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"omitempty,max=256"`
	CoverImage  string `json:"cover_image" binding:"omitempty"`
	Importance  int    `json:"importance"  binding:"omitempty,min=1,max=5"`
}

// UpdateCollectionRequest 更新收藏夹请求
type UpdateCollectionRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=64"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	CoverImage  *string `json:"cover_image"`
	Importance  *int    `json:"importance"  binding:"omitempty,min=1,max=5"`
}

// CollectionListRequest 收藏夹列表查询参数
type CollectionListRequest struct {
	Keyword    string `form:"keyword"`
	Importance *int   `form:"importance" binding:"omitempty,min=1,max=5"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// ReorderCollectionsRequest 拖拽排序结果提交
// IDs 按新顺序排列的收藏夹 ID 全量列表
type ReorderCollectionsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// CollectionTicketsRequest 收藏夹内车票操作请求
type CollectionTicketsRequest struct {
	TicketIDs []uint `json:"ticket_ids" binding:"required,min=1"`
}

// CollectionResponse 收藏夹信息响应
type CollectionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HasCover    bool   `json:"has_cover"`
	Importance  int    `json:"importance"`
	SortOrder   int    `json:"sort_order"`
	TicketCount int    `json:"ticket_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	IsSelected  bool   `json:"is_selected"`
}

// AddTicketsResponse 添加车票到收藏夹的结果
type AddTicketsResponse struct {
	Added          int `json:"added"`
	AlreadyMapped  int `json:"already_mapped"`
	TicketCountNow int `json:"ticket_count_now"`
}
