package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
)

// StationFilter 车站列表筛选条件
type StationFilter struct {
	// Keyword 搜索关键字（裸站名，调用方已去除“站”后缀）
	Keyword string
	// PhoneticPrefix 为 true 时 Keyword 按拼音前缀匹配，否则按站名子串匹配
	PhoneticPrefix bool
	Bureau         string
	Level          *int
}

// StationRepository 车站登记簿数据访问接口
type StationRepository interface {
	Create(ctx context.Context, station *model.Station) error
	GetByID(ctx context.Context, id uint) (*model.Station, error)
	GetByName(ctx context.Context, name string) (*model.Station, error)
	List(ctx context.Context, filter StationFilter, offset, limit int) ([]model.Station, int64, error)
	ListAll(ctx context.Context) ([]model.Station, error)
	Update(ctx context.Context, station *model.Station) error
	Delete(ctx context.Context, id uint) error
}

// stationRepo StationRepository 的 GORM 实现
type stationRepo struct {
	db *gorm.DB
}

// NewStationRepo 创建 StationRepository 实例
func NewStationRepo(db *gorm.DB) StationRepository {
	return &stationRepo{db: db}
}

func (r *stationRepo) Create(ctx context.Context, station *model.Station) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *stationRepo) GetByID(ctx context.Context, id uint) (*model.Station, error) {
	var station model.Station
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&station).Error
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepo) GetByName(ctx context.Context, name string) (*model.Station, error) {
	var station model.Station
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&station).Error
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepo) List(ctx context.Context, filter StationFilter, offset, limit int) ([]model.Station, int64, error) {
	var stations []model.Station
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Station{})

	if filter.Keyword != "" {
		if filter.PhoneticPrefix {
			db = db.Where("phonetic LIKE ?", filter.Keyword+"%")
		} else {
			db = db.Where("name LIKE ?", "%"+filter.Keyword+"%")
		}
	}
	if filter.Bureau != "" {
		db = db.Where("railway_bureau = ?", filter.Bureau)
	}
	if filter.Level != nil {
		db = db.Where("station_level = ?", *filter.Level)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("phonetic ASC, name ASC").
		Find(&stations).Error; err != nil {
		return nil, 0, err
	}

	return stations, total, nil
}

func (r *stationRepo) ListAll(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	err := r.db.WithContext(ctx).
		Order("phonetic ASC, name ASC").
		Find(&stations).Error
	return stations, err
}

func (r *stationRepo) Update(ctx context.Context, station *model.Station) error {
	return r.db.WithContext(ctx).Save(station).Error
}

func (r *stationRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Delete(&model.Station{}, id).Error
}
