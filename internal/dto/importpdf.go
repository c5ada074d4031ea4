package dto

// ── PDF 导入模块 DTO ──

// ImportParseRequest 上传 PDF 解析请求
// Content 为 base64 编码的 PDF 原始字节
type ImportParseRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Content  string `json:"content"   binding:"required"`
}

// ImportParseResponse 解析结果
// 解析失败时 Parsed 为 false 且 Fields 为空，前端转入全手工录入
type ImportParseResponse struct {
	SessionID string            `json:"session_id"`
	State     string            `json:"state"`
	Parsed    bool              `json:"parsed"`
	Fields    map[string]string `json:"fields,omitempty"`
	Locked    map[string]bool   `json:"locked,omitempty"`
}

// ImportUnlockRequest 解锁指定字段以允许编辑
type ImportUnlockRequest struct {
	SessionID string   `json:"session_id" binding:"required"`
	Fields    []string `json:"fields"     binding:"required,min=1"`
}

// ImportCommitRequest 提交导入
// Overrides 为解锁后用户改写的字段值
type ImportCommitRequest struct {
	SessionID string            `json:"session_id" binding:"required"`
	Overrides map[string]string `json:"overrides"`
}

// ImportCommitResponse 提交结果
type ImportCommitResponse struct {
	State    string `json:"state"`
	TicketID uint   `json:"ticket_id,omitempty"`
}
