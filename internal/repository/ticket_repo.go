package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
)

// TicketFilter 车票列表筛选条件
// CombineOr 为 true 时多字段条件按 OR 组合，默认 AND
// OnlyUsedDepart 为 true 时出发站来自"我用过的出发站"下拉，
// 条件按精确匹配处理并限定在去重后的已用出发站集合内
type TicketFilter struct {
	DepartStation  string
	ArriveStation  string
	TrainPrefix    string
	Year           int
	SeatClass      string
	OnlyUsedDepart bool
	CombineOr      bool
	SortBy         string
	SortDesc       bool
}

// TicketRepository 乘车记录数据访问接口
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByID(ctx context.Context, id uint) (*model.Ticket, error)
	List(ctx context.Context, filter TicketFilter, offset, limit int) ([]model.Ticket, int64, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	DistinctYears(ctx context.Context) ([]int, error)
	DistinctTrainPrefixes(ctx context.Context) ([]string, error)
	DistinctDepartStations(ctx context.Context) ([]string, error)
}

// ticketRepo TicketRepository 的 GORM 实现
type ticketRepo struct {
	db *gorm.DB
}

// NewTicketRepo 创建 TicketRepository 实例
func NewTicketRepo(db *gorm.DB) TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepo) GetByID(ctx context.Context, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// 列表允许的排序列，防止拼接进 ORDER BY 的任意输入
var ticketSortColumns = map[string]string{
	"travel_date":    "travel_date",
	"fare":           "fare",
	"depart_station": "depart_station",
	"arrive_station": "arrive_station",
	"created_at":     "created_at",
}

// List 分页查询
// 总数与数据页是两条语句，不包事务；并发写入下两者可能短暂不一致
func (r *ticketRepo) List(ctx context.Context, filter TicketFilter, offset, limit int) ([]model.Ticket, int64, error) {
	var tickets []model.Ticket
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Ticket{})
	db = applyTicketFilter(db, filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "travel_date"
	if col, ok := ticketSortColumns[filter.SortBy]; ok {
		order = col
	}
	if filter.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	if err := db.Offset(offset).Limit(limit).
		Order(order).Order("id DESC").
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// applyTicketFilter 将筛选条件装配为查询
func applyTicketFilter(db *gorm.DB, filter TicketFilter) *gorm.DB {
	type cond struct {
		query string
		arg   interface{}
	}
	var conds []cond

	if filter.OnlyUsedDepart {
		used := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Ticket{}).
			Distinct("depart_station")
		db = db.Where("depart_station IN (?)", used)
	}

	if filter.DepartStation != "" {
		if filter.OnlyUsedDepart {
			conds = append(conds, cond{"depart_station = ?", filter.DepartStation})
		} else {
			conds = append(conds, cond{"depart_station LIKE ?", "%" + filter.DepartStation + "%"})
		}
	}
	if filter.ArriveStation != "" {
		conds = append(conds, cond{"arrive_station LIKE ?", "%" + filter.ArriveStation + "%"})
	}
	if filter.TrainPrefix != "" {
		conds = append(conds, cond{"train_prefix = ?", filter.TrainPrefix})
	}
	if filter.Year != 0 {
		conds = append(conds, cond{"YEAR(travel_date) = ?", filter.Year})
	}
	if filter.SeatClass != "" {
		conds = append(conds, cond{"seat_class = ?", filter.SeatClass})
	}

	if len(conds) == 0 {
		return db
	}

	if filter.CombineOr {
		combined := db.Session(&gorm.Session{NewDB: true}).
			Where(conds[0].query, conds[0].arg)
		for _, c := range conds[1:] {
			combined = combined.Or(c.query, c.arg)
		}
		return db.Where(combined)
	}

	for _, c := range conds {
		db = db.Where(c.query, c.arg)
	}
	return db
}

func (r *ticketRepo) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *ticketRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error
}

func (r *ticketRepo) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Ticket{}, ids)
	return result.RowsAffected, result.Error
}

func (r *ticketRepo) DistinctYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Distinct("YEAR(travel_date)").
		Order("YEAR(travel_date) DESC").
		Pluck("YEAR(travel_date)", &years).Error
	return years, err
}

func (r *ticketRepo) DistinctTrainPrefixes(ctx context.Context) ([]string, error) {
	var prefixes []string
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("train_prefix <> ''").
		Distinct("train_prefix").
		Order("train_prefix ASC").
		Pluck("train_prefix", &prefixes).Error
	return prefixes, err
}

func (r *ticketRepo) DistinctDepartStations(ctx context.Context) ([]string, error) {
	var stations []string
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Distinct("depart_station").
		Order("depart_station ASC").
		Pluck("depart_station", &stations).Error
	return stations, err
}
