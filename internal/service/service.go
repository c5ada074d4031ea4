package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/jwt"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Conn       ConnService
	Station    StationService
	Ticket     TicketService
	Collection CollectionService
	Geo        GeoService
	Export     ExportService
	Import     ImportService
}

// NewService 创建 Service 聚合
// db 可为 nil：等待登录建立连接；rdb 可为 nil：地理编码缓存退化为进程内缓存
func NewService(cfg *config.Config, db *gorm.DB, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	conn := NewConnService(cfg, db, repo, jwtMgr, logger)
	station := NewStationService(repo, logger)
	ticket := NewTicketService(repo, station, logger)

	return &Service{
		Conn:       conn,
		Station:    station,
		Ticket:     ticket,
		Collection: NewCollectionService(repo, logger),
		Geo:        NewGeoService(&cfg.Amap, rdb, logger),
		Export:     NewExportService(repo, logger),
		Import:     NewImportService(ticket, logger),
	}
}
