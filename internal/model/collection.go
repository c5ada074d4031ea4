package model

import "time"

// Collection 收藏夹 — 对应 ticket_collection
type Collection struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"    json:"id"`
	Name        string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Description string `gorm:"column:description;type:varchar(256)"  json:"description"`
	CoverImage  []byte `gorm:"column:cover_image;type:mediumblob"    json:"-"`
	Importance  int    `gorm:"column:importance;not null;default:3"  json:"importance"`
	SortOrder   int    `gorm:"column:sort_order;not null;default:0"  json:"sort_order"`
	TicketCount int    `gorm:"column:ticket_count;not null"          json:"ticket_count"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	// IsSelected 仅用于界面选择状态，不落库
	IsSelected bool `gorm:"-" json:"is_selected"`
}

// TableName 指定表名
func (Collection) TableName() string { return "ticket_collection" }

// CollectionTicket 收藏夹与车票的多对多关联行 — 对应 collection_ticket
// (collection_id, ticket_id) 唯一，收藏夹删除时级联删除
type CollectionTicket struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CollectionID uint      `gorm:"column:collection_id;not null"      json:"collection_id"`
	TicketID     uint      `gorm:"column:ticket_id;not null"          json:"ticket_id"`
	AddedAt      time.Time `gorm:"column:added_at;not null"           json:"added_at"`
}

// TableName 指定表名
func (CollectionTicket) TableName() string { return "collection_ticket" }
