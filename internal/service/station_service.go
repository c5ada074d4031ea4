package service

import (
	"context"
	"errors"
	"sync"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
)

var (
	ErrStationNotFound = errors.New("车站不存在")
	ErrStationExists   = errors.New("车站已登记，请勿重复添加")
)

// StationService 车站登记簿业务接口
type StationService interface {
	Create(ctx context.Context, req *dto.CreateStationRequest) (*dto.StationResponse, error)
	Get(ctx context.Context, id uint) (*dto.StationResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateStationRequest) (*dto.StationResponse, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, req *dto.StationListRequest) ([]dto.StationResponse, int64, error)
	// Search 增量搜索：字母输入按拼音前缀匹配，其余按站名子串匹配
	Search(ctx context.Context, keyword string) (*dto.StationSearchResponse, error)

	// Lookup 按裸站名查内存登记簿，未就绪时返回 ErrRegistryNotReady
	Lookup(name string) (*model.Station, error)
	// WarmUp 异步加载登记簿到内存
	WarmUp()
	// Reload 同步重建内存登记簿（增删改后调用）
	Reload(ctx context.Context) error
}

type stationService struct {
	repo   *repository.Repository
	logger *zap.Logger

	mu       sync.RWMutex
	registry map[string]*model.Station
	ready    bool
}

// NewStationService 创建 StationService 实例
func NewStationService(repo *repository.Repository, logger *zap.Logger) StationService {
	return &stationService{repo: repo, logger: logger}
}

func (s *stationService) Create(ctx context.Context, req *dto.CreateStationRequest) (*dto.StationResponse, error) {
	name := model.NormalizeStationName(req.Name)

	if _, err := s.repo.Station.GetByName(ctx, name); err == nil {
		return nil, ErrStationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	station := &model.Station{
		Name:          name,
		Phonetic:      req.Phonetic,
		Code:          req.Code,
		Province:      req.Province,
		City:          req.City,
		District:      req.District,
		Longitude:     req.Longitude,
		Latitude:      req.Latitude,
		StationLevel:  req.StationLevel,
		RailwayBureau: req.RailwayBureau,
	}
	if err := s.repo.Station.Create(ctx, station); err != nil {
		return nil, err
	}

	s.put(station)
	s.logger.Info("车站登记成功", zap.String("name", name))
	return toStationResponse(station), nil
}

func (s *stationService) Get(ctx context.Context, id uint) (*dto.StationResponse, error) {
	station, err := s.repo.Station.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return toStationResponse(station), nil
}

func (s *stationService) Update(ctx context.Context, id uint, req *dto.UpdateStationRequest) (*dto.StationResponse, error) {
	station, err := s.repo.Station.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	if req.Phonetic != nil {
		station.Phonetic = *req.Phonetic
	}
	if req.Code != nil {
		station.Code = *req.Code
	}
	if req.Province != nil {
		station.Province = *req.Province
	}
	if req.City != nil {
		station.City = *req.City
	}
	if req.District != nil {
		station.District = *req.District
	}
	if req.Longitude != nil {
		station.Longitude = req.Longitude
	}
	if req.Latitude != nil {
		station.Latitude = req.Latitude
	}
	if req.StationLevel != nil {
		station.StationLevel = *req.StationLevel
	}
	if req.RailwayBureau != nil {
		station.RailwayBureau = *req.RailwayBureau
	}

	if err := s.repo.Station.Update(ctx, station); err != nil {
		return nil, err
	}
	s.put(station)
	return toStationResponse(station), nil
}

func (s *stationService) Delete(ctx context.Context, id uint) error {
	station, err := s.repo.Station.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	if err := s.repo.Station.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.registry, station.Name)
	s.mu.Unlock()
	return nil
}

func (s *stationService) List(ctx context.Context, req *dto.StationListRequest) ([]dto.StationResponse, int64, error) {
	filter := searchFilter(req.Keyword)
	filter.Bureau = req.Bureau
	filter.Level = req.Level

	offset := (req.Page - 1) * req.PageSize
	stations, total, err := s.repo.Station.List(ctx, filter, offset, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.StationResponse, 0, len(stations))
	for i := range stations {
		list = append(list, *toStationResponse(&stations[i]))
	}
	return list, total, nil
}

func (s *stationService) Search(ctx context.Context, keyword string) (*dto.StationSearchResponse, error) {
	filter := searchFilter(keyword)
	resp := &dto.StationSearchResponse{List: []dto.StationResponse{}}
	if filter.Keyword == "" {
		return resp, nil
	}

	stations, _, err := s.repo.Station.List(ctx, filter, 0, 20)
	if err != nil {
		return nil, err
	}
	for i := range stations {
		resp.List = append(resp.List, *toStationResponse(&stations[i]))
	}
	// 非平凡输入且零匹配 → 提示该站尚未登记
	resp.Unregistered = len(resp.List) == 0
	return resp, nil
}

func (s *stationService) Lookup(name string) (*model.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, apperrors.ErrRegistryNotReady
	}
	station, ok := s.registry[model.NormalizeStationName(name)]
	if !ok {
		return nil, ErrStationNotFound
	}
	return station, nil
}

func (s *stationService) WarmUp() {
	go func() {
		if err := s.Reload(context.Background()); err != nil {
			s.logger.Warn("车站登记簿预热失败", zap.Error(err))
		}
	}()
}

func (s *stationService) Reload(ctx context.Context) error {
	stations, err := s.repo.Station.ListAll(ctx)
	if err != nil {
		return err
	}

	registry := make(map[string]*model.Station, len(stations))
	for i := range stations {
		registry[stations[i].Name] = &stations[i]
	}

	s.mu.Lock()
	s.registry = registry
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("车站登记簿已加载", zap.Int("count", len(registry)))
	return nil
}

// put 单条写回内存登记簿（仅在已就绪时生效）
func (s *stationService) put(station *model.Station) {
	s.mu.Lock()
	if s.ready {
		s.registry[station.Name] = station
	}
	s.mu.Unlock()
}

// searchFilter 根据输入形态决定匹配方式
func searchFilter(keyword string) repository.StationFilter {
	keyword = model.NormalizeStationName(keyword)
	return repository.StationFilter{
		Keyword:        keyword,
		PhoneticPrefix: isAlphabetic(keyword),
	}
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func toStationResponse(station *model.Station) *dto.StationResponse {
	return &dto.StationResponse{
		ID:            station.ID,
		Name:          station.Name,
		Phonetic:      station.Phonetic,
		Code:          station.Code,
		Province:      station.Province,
		City:          station.City,
		District:      station.District,
		Longitude:     station.Longitude,
		Latitude:      station.Latitude,
		StationLevel:  station.StationLevel,
		RailwayBureau: station.RailwayBureau,
	}
}
