package dto

// ── 登录/连接模块 DTO ──

// LoginRequest 数据库登录请求
// 留空的字段回落到配置文件中保存的连接档案
type LoginRequest struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Database         string `json:"database"`
	User             string `json:"user"`
	Password         string `json:"password"`
	RememberPassword bool   `json:"remember_password"`
	// CreateTables 表结构缺失时就地建表（“立即建表”修复）
	CreateTables bool `json:"create_tables"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token    string `json:"token"`
	Database string `json:"database"`
	User     string `json:"user"`
}

// ConnectionProfileResponse 连接档案与最近使用的数据库名
type ConnectionProfileResponse struct {
	Host             string   `json:"host"`
	Port             int      `json:"port"`
	Database         string   `json:"database"`
	User             string   `json:"user"`
	RememberPassword bool     `json:"remember_password"`
	RecentDatabases  []string `json:"recent_databases"`
}
