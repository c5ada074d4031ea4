package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
)

// CollectionFilter 收藏夹列表筛选条件
type CollectionFilter struct {
	Keyword    string
	Importance *int
}

// CollectionRepository 收藏夹数据访问接口
type CollectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) error
	GetByID(ctx context.Context, id uint) (*model.Collection, error)
	List(ctx context.Context, filter CollectionFilter, offset, limit int) ([]model.Collection, int64, error)
	ListNamesLike(ctx context.Context, prefix string) ([]string, error)
	Update(ctx context.Context, collection *model.Collection) error
	UpdateSortOrders(ctx context.Context, orders map[uint]int) error
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)

	// ── 收藏夹内车票关联 ──

	// AddTickets 排除已在收藏夹内的票后批量插入，返回实际插入数
	AddTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int, error)
	RemoveTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int64, error)
	ListTickets(ctx context.Context, collectionID uint, offset, limit int) ([]model.Ticket, int64, error)
	MappedTicketIDs(ctx context.Context, collectionID uint, ticketIDs []uint) ([]uint, error)
	CountTickets(ctx context.Context, collectionID uint) (int64, error)
}

// collectionRepo CollectionRepository 的 GORM 实现
type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepo 创建 CollectionRepository 实例
func NewCollectionRepo(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepo) GetByID(ctx context.Context, id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepo) List(ctx context.Context, filter CollectionFilter, offset, limit int) ([]model.Collection, int64, error) {
	var collections []model.Collection
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Collection{})

	if filter.Keyword != "" {
		db = db.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.Importance != nil {
		db = db.Where("importance = ?", *filter.Importance)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("sort_order ASC, id ASC").
		Find(&collections).Error; err != nil {
		return nil, 0, err
	}

	return collections, total, nil
}

// ListNamesLike 查询以 prefix 开头的收藏夹名，用于重名时生成 "(n)" 后缀
func (r *collectionRepo) ListNamesLike(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Collection{}).
		Where("name LIKE ?", prefix+"%").
		Pluck("name", &names).Error
	return names, err
}

func (r *collectionRepo) Update(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

// UpdateSortOrders 批量写入拖拽排序结果
func (r *collectionRepo) UpdateSortOrders(ctx context.Context, orders map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, order := range orders {
			if err := tx.Model(&model.Collection{}).
				Where("id = ?", id).
				Update("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除收藏夹，关联行由外键级联删除
func (r *collectionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Collection{}, id).Error
}

func (r *collectionRepo) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Collection{}, ids)
	return result.RowsAffected, result.Error
}

// MappedTicketIDs 返回 ticketIDs 中已在收藏夹内的子集
func (r *collectionRepo) MappedTicketIDs(ctx context.Context, collectionID uint, ticketIDs []uint) ([]uint, error) {
	var mapped []uint
	err := r.db.WithContext(ctx).Model(&model.CollectionTicket{}).
		Where("collection_id = ? AND ticket_id IN ?", collectionID, ticketIDs).
		Pluck("ticket_id", &mapped).Error
	return mapped, err
}

func (r *collectionRepo) AddTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int, error) {
	mapped, err := r.MappedTicketIDs(ctx, collectionID, ticketIDs)
	if err != nil {
		return 0, err
	}
	mappedSet := make(map[uint]bool, len(mapped))
	for _, id := range mapped {
		mappedSet[id] = true
	}

	now := time.Now()
	var rows []model.CollectionTicket
	for _, id := range ticketIDs {
		if !mappedSet[id] {
			rows = append(rows, model.CollectionTicket{
				CollectionID: collectionID,
				TicketID:     id,
				AddedAt:      now,
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	// 两个会话并发添加同一张票时，唯一索引会拦下第二次插入
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *collectionRepo) RemoveTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND ticket_id IN ?", collectionID, ticketIDs).
		Delete(&model.CollectionTicket{})
	return result.RowsAffected, result.Error
}

func (r *collectionRepo) ListTickets(ctx context.Context, collectionID uint, offset, limit int) ([]model.Ticket, int64, error) {
	var tickets []model.Ticket
	var total int64

	joined := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Joins("JOIN collection_ticket ct ON ct.ticket_id = ride_record.id").
		Where("ct.collection_id = ?", collectionID)

	if err := joined.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := joined.Offset(offset).Limit(limit).
		Order("ct.added_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *collectionRepo) CountTickets(ctx context.Context, collectionID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CollectionTicket{}).
		Where("collection_id = ?", collectionID).
		Count(&total).Error
	return total, err
}
