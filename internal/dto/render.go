package dto

// ── 车票预览/导出模块 DTO ──

// RenderRequest 渲染车票预览图请求
type RenderRequest struct {
	TicketID uint `json:"ticket_id" binding:"required"`
	// Variant 底纹样式：red | blue
	Variant string `json:"variant" binding:"required,oneof=red blue"`
	// EncodingArea 编码区文本，二维码载荷；为空时使用取票号
	EncodingArea string `json:"encoding_area"`
	// FilePath 导出目标路径；为空表示用户取消了保存对话框
	FilePath string `json:"file_path"`
}

// RenderResponse 渲染结果
// Aborted 为 true 表示未选择保存路径，导出被静默放弃
type RenderResponse struct {
	Aborted  bool   `json:"aborted"`
	FilePath string `json:"file_path,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
