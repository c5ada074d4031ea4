package dto

// ── 车站模块 DTO ──

// CreateStationRequest 登记车站请求
type CreateStationRequest struct {
	Name          string   `json:"name"           binding:"required,max=32"`
	Phonetic      string   `json:"phonetic"       binding:"omitempty,max=64"`
	Code          string   `json:"code"           binding:"omitempty,max=8"`
	Province      string   `json:"province"       binding:"omitempty,max=32"`
	City          string   `json:"city"           binding:"omitempty,max=32"`
	District      string   `json:"district"       binding:"omitempty,max=32"`
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
	StationLevel  int      `json:"station_level"  binding:"omitempty,min=0,max=6"`
	RailwayBureau string   `json:"railway_bureau" binding:"omitempty,max=32"`
}

// UpdateStationRequest 更新车站请求
type UpdateStationRequest struct {
	Phonetic      *string  `json:"phonetic"       binding:"omitempty,max=64"`
	Code          *string  `json:"code"           binding:"omitempty,max=8"`
	Province      *string  `json:"province"       binding:"omitempty,max=32"`
	City          *string  `json:"city"           binding:"omitempty,max=32"`
	District      *string  `json:"district"       binding:"omitempty,max=32"`
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
	StationLevel  *int     `json:"station_level"  binding:"omitempty,min=0,max=6"`
	RailwayBureau *string  `json:"railway_bureau" binding:"omitempty,max=32"`
}

// StationListRequest 车站列表查询参数
type StationListRequest struct {
	// Keyword 字母输入按拼音前缀匹配，其余按站名子串匹配
	Keyword  string `form:"keyword"`
	Bureau   string `form:"bureau"`
	Level    *int   `form:"level"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// StationResponse 车站信息响应
type StationResponse struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Phonetic      string   `json:"phonetic"`
	Code          string   `json:"code"`
	Province      string   `json:"province,omitempty"`
	City          string   `json:"city,omitempty"`
	District      string   `json:"district,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	StationLevel  int      `json:"station_level"`
	RailwayBureau string   `json:"railway_bureau,omitempty"`
}

// StationSearchResponse 增量搜索响应
// Unregistered 为 true 表示输入非平凡但登记簿中无匹配
type StationSearchResponse struct {
	List         []StationResponse `json:"list"`
	Unregistered bool              `json:"unregistered"`
}
