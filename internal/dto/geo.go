package dto

// ── 地理编码模块 DTO ──

// GeoLookupRequest 按站名查询行政区划与坐标
type GeoLookupRequest struct {
	StationName string `form:"station_name" binding:"required"`
}

// GeoLookupResponse 地理编码结果
type GeoLookupResponse struct {
	Province  string  `json:"province"`
	City      string  `json:"city"`
	District  string  `json:"district"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	FromCache bool    `json:"from_cache"`
}
