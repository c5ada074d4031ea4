package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/redis"
)

// ── 地理编码业务错误 ──
// 按响应内容分类，每类带针对性的操作指引，不做自动重试

var (
	ErrGeoKeyMissing    = errors.New("未配置高德地图 API Key，请在设置中填写后重试")
	ErrGeoKeyInvalid    = errors.New("高德地图 API Key 无效，请检查 Key 是否填写正确")
	ErrGeoQuotaExceeded = errors.New("高德地图 API 今日配额已用尽，请明天再试或更换 Key")
	ErrGeoNoResult      = errors.New("未能查询到该车站的地理信息")
)

const defaultGeoEndpoint = "https://restapi.amap.com/v3/geo"

// GeoService 地理编码业务接口
type GeoService interface {
	Lookup(ctx context.Context, stationName string) (*dto.GeoLookupResponse, error)
}

type geoService struct {
	cfg    *config.AmapConfig
	rdb    *redis.Client
	client *http.Client
	logger *zap.Logger

	// Redis 不可用时降级为进程内缓存
	mu    sync.RWMutex
	local map[string]*dto.GeoLookupResponse
}

// NewGeoService 创建 GeoService 实例，rdb 可为 nil
func NewGeoService(cfg *config.AmapConfig, rdb *redis.Client, logger *zap.Logger) GeoService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &geoService{
		cfg:    cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		local:  make(map[string]*dto.GeoLookupResponse),
	}
}

// amapResponse 高德地理编码接口响应
type amapResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
	Geocodes []struct {
		Province string `json:"province"`
		City     string `json:"city"`
		District string `json:"district"`
		Location string `json:"location"` // "lng,lat"
	} `json:"geocodes"`
}

func (s *geoService) Lookup(ctx context.Context, stationName string) (*dto.GeoLookupResponse, error) {
	name := model.NormalizeStationName(stationName)
	if name == "" {
		return nil, ErrGeoNoResult
	}

	if cached, ok := s.fromCache(ctx, name); ok {
		cached.FromCache = true
		return cached, nil
	}

	if s.cfg.Key == "" {
		return nil, ErrGeoKeyMissing
	}

	result, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, name, result)
	return result, nil
}

func (s *geoService) fetch(ctx context.Context, name string) (*dto.GeoLookupResponse, error) {
	endpoint := s.cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeoEndpoint
	}

	params := url.Values{}
	params.Set("key", s.cfg.Key)
	params.Set("address", model.WithStationSuffix(name))
	params.Set("output", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("地理编码请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("地理编码服务返回异常状态: %s", resp.Status)
	}

	var body amapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("地理编码响应解析失败: %w", err)
	}

	if body.Status != "1" {
		return nil, classifyGeoError(&body)
	}
	if len(body.Geocodes) == 0 {
		return nil, ErrGeoNoResult
	}

	geo := body.Geocodes[0]
	lng, lat, err := parseLocation(geo.Location)
	if err != nil {
		return nil, ErrGeoNoResult
	}

	s.logger.Info("地理编码查询成功", zap.String("station", name))
	return &dto.GeoLookupResponse{
		Province:  geo.Province,
		City:      geo.City,
		District:  geo.District,
		Longitude: lng,
		Latitude:  lat,
	}, nil
}

// classifyGeoError 按高德错误码归类
func classifyGeoError(body *amapResponse) error {
	switch {
	case body.InfoCode == "10001" || strings.Contains(body.Info, "INVALID_USER_KEY"):
		return ErrGeoKeyInvalid
	case body.InfoCode == "10003" || strings.Contains(body.Info, "DAILY_QUERY_OVER_LIMIT"):
		return ErrGeoQuotaExceeded
	default:
		return fmt.Errorf("地理编码服务返回错误: %s (%s)", body.Info, body.InfoCode)
	}
}

func parseLocation(location string) (float64, float64, error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("坐标格式异常: %s", location)
	}
	lng, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return lng, lat, nil
}

func (s *geoService) fromCache(ctx context.Context, name string) (*dto.GeoLookupResponse, bool) {
	if s.rdb != nil {
		var result dto.GeoLookupResponse
		err := s.rdb.GetGeocode(ctx, name, &result)
		if err == nil {
			return &result, true
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("地理编码缓存读取失败", zap.Error(err))
		}
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if result, ok := s.local[name]; ok {
		clone := *result
		return &clone, true
	}
	return nil, false
}

func (s *geoService) toCache(ctx context.Context, name string, result *dto.GeoLookupResponse) {
	ttl := s.cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	if s.rdb != nil {
		if err := s.rdb.SetGeocode(ctx, name, result, ttl); err != nil {
			s.logger.Warn("地理编码缓存写入失败", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	clone := *result
	s.local[name] = &clone
	s.mu.Unlock()
}
