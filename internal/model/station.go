package model

import (
	"strings"
	"time"
)

// StationSuffix 站名统一后缀
// 登记簿内保存裸站名，车票上保存带后缀的站名
const StationSuffix = "站"

// NormalizeStationName 去掉末尾的“站”后缀
func NormalizeStationName(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), StationSuffix)
}

// WithStationSuffix 为裸站名追加“站”后缀（已带后缀则原样返回）
func WithStationSuffix(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, StationSuffix) {
		return name
	}
	return name + StationSuffix
}

// Station 车站登记簿条目 — 对应 station_info
type Station struct {
	ID            uint     `gorm:"column:id;primaryKey;autoIncrement"        json:"id"`
	Name          string   `gorm:"column:name;type:varchar(32);not null"     json:"name"`
	Phonetic      string   `gorm:"column:phonetic;type:varchar(64)"          json:"phonetic"`
	Code          string   `gorm:"column:code;type:varchar(8)"               json:"code"`
	Province      string   `gorm:"column:province;type:varchar(32)"          json:"province"`
	City          string   `gorm:"column:city;type:varchar(32)"              json:"city"`
	District      string   `gorm:"column:district;type:varchar(32)"          json:"district"`
	Longitude     *float64 `gorm:"column:longitude;type:decimal(10,6)"       json:"longitude,omitempty"`
	Latitude      *float64 `gorm:"column:latitude;type:decimal(10,6)"        json:"latitude,omitempty"`
	StationLevel  int      `gorm:"column:station_level;not null;default:0"   json:"station_level"`
	RailwayBureau string   `gorm:"column:railway_bureau;type:varchar(32)"    json:"railway_bureau"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName 指定表名
func (Station) TableName() string { return "station_info" }
