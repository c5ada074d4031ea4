package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Station    StationRepository
	Ticket     TicketRepository
	Collection CollectionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Station:    NewStationRepo(db),
		Ticket:     NewTicketRepo(db),
		Collection: NewCollectionRepo(db),
	}
}
