package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
)

var (
	ErrCollectionNotFound = errors.New("收藏夹不存在")
	ErrCoverInvalid       = errors.New("封面图片无法识别，仅支持 jpg/png 格式")
	ErrCoverTooLarge      = errors.New("封面图片过大，不能超过 8MB")
)

const (
	coverMaxBytes    = 8 << 20
	coverMaxEdge     = 640
	coverJPEGQuality = 80
)

// CollectionService 收藏夹业务接口
type CollectionService interface {
	Create(ctx context.Context, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error)
	Get(ctx context.Context, id uint) (*dto.CollectionResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCollectionRequest) (*dto.CollectionResponse, error)
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	List(ctx context.Context, req *dto.CollectionListRequest) ([]dto.CollectionResponse, int64, error)
	// Cover 返回压缩后的封面 JPEG 字节
	Cover(ctx context.Context, id uint) ([]byte, error)
	// Reorder 按提交的 ID 顺序重写 sort_order
	Reorder(ctx context.Context, req *dto.ReorderCollectionsRequest) error

	// AddTickets 已在收藏夹内的票自动跳过，不视为错误
	AddTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (*dto.AddTicketsResponse, error)
	RemoveTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int64, error)
	ListTickets(ctx context.Context, collectionID uint, page, pageSize int) ([]dto.TicketResponse, int64, error)
}

type collectionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCollectionService 创建 CollectionService 实例
func NewCollectionService(repo *repository.Repository, logger *zap.Logger) CollectionService {
	return &collectionService{repo: repo, logger: logger}
}

func (s *collectionService) Create(ctx context.Context, req *dto.CreateCollectionRequest) (*dto.CollectionResponse, error) {
	name, err := s.uniqueName(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	var cover []byte
	if req.CoverImage != "" {
		cover, err = processCover(req.CoverImage)
		if err != nil {
			return nil, err
		}
	}

	importance := req.Importance
	if importance == 0 {
		importance = 3
	}

	collection := &model.Collection{
		Name:        name,
		Description: req.Description,
		CoverImage:  cover,
		Importance:  importance,
	}
	if err := s.repo.Collection.Create(ctx, collection); err != nil {
		return nil, err
	}
	s.logger.Info("收藏夹创建成功", zap.String("name", name))
	return toCollectionResponse(collection), nil
}

func (s *collectionService) Get(ctx context.Context, id uint) (*dto.CollectionResponse, error) {
	collection, err := s.getCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCollectionResponse(collection), nil
}

func (s *collectionService) Update(ctx context.Context, id uint, req *dto.UpdateCollectionRequest) (*dto.CollectionResponse, error) {
	collection, err := s.getCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != collection.Name {
		name, err := s.uniqueName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		collection.Name = name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.CoverImage != nil {
		if *req.CoverImage == "" {
			collection.CoverImage = nil
		} else {
			cover, err := processCover(*req.CoverImage)
			if err != nil {
				return nil, err
			}
			collection.CoverImage = cover
		}
	}
	if req.Importance != nil {
		collection.Importance = *req.Importance
	}

	if err := s.repo.Collection.Update(ctx, collection); err != nil {
		return nil, err
	}
	return toCollectionResponse(collection), nil
}

func (s *collectionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getCollection(ctx, id); err != nil {
		return err
	}
	return s.repo.Collection.Delete(ctx, id)
}

func (s *collectionService) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	deleted, err := s.repo.Collection.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("批量删除收藏夹", zap.Int("requested", len(ids)), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *collectionService) List(ctx context.Context, req *dto.CollectionListRequest) ([]dto.CollectionResponse, int64, error) {
	filter := repository.CollectionFilter{
		Keyword:    req.Keyword,
		Importance: req.Importance,
	}
	offset := (req.Page - 1) * req.PageSize
	collections, total, err := s.repo.Collection.List(ctx, filter, offset, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.CollectionResponse, 0, len(collections))
	for i := range collections {
		list = append(list, *toCollectionResponse(&collections[i]))
	}
	return list, total, nil
}

func (s *collectionService) Cover(ctx context.Context, id uint) ([]byte, error) {
	collection, err := s.getCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	return collection.CoverImage, nil
}

func (s *collectionService) Reorder(ctx context.Context, req *dto.ReorderCollectionsRequest) error {
	orders := make(map[uint]int, len(req.IDs))
	for i, id := range req.IDs {
		orders[id] = i
	}
	return s.repo.Collection.UpdateSortOrders(ctx, orders)
}

func (s *collectionService) AddTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (*dto.AddTicketsResponse, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	mapped, err := s.repo.Collection.MappedTicketIDs(ctx, collectionID, ticketIDs)
	if err != nil {
		return nil, err
	}
	added, err := s.repo.Collection.AddTickets(ctx, collectionID, ticketIDs)
	if err != nil {
		return nil, err
	}

	count, err := s.refreshTicketCount(ctx, collection)
	if err != nil {
		return nil, err
	}

	return &dto.AddTicketsResponse{
		Added:          added,
		AlreadyMapped:  len(mapped),
		TicketCountNow: count,
	}, nil
}

func (s *collectionService) RemoveTickets(ctx context.Context, collectionID uint, ticketIDs []uint) (int64, error) {
	collection, err := s.getCollection(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	removed, err := s.repo.Collection.RemoveTickets(ctx, collectionID, ticketIDs)
	if err != nil {
		return 0, err
	}
	if _, err := s.refreshTicketCount(ctx, collection); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *collectionService) ListTickets(ctx context.Context, collectionID uint, page, pageSize int) ([]dto.TicketResponse, int64, error) {
	if _, err := s.getCollection(ctx, collectionID); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	tickets, total, err := s.repo.Collection.ListTickets(ctx, collectionID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		list = append(list, *toTicketResponse(&tickets[i]))
	}
	return list, total, nil
}

func (s *collectionService) getCollection(ctx context.Context, id uint) (*model.Collection, error) {
	collection, err := s.repo.Collection.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

// refreshTicketCount 重算并回写缓存的票数
func (s *collectionService) refreshTicketCount(ctx context.Context, collection *model.Collection) (int, error) {
	count, err := s.repo.Collection.CountTickets(ctx, collection.ID)
	if err != nil {
		return 0, err
	}
	collection.TicketCount = int(count)
	if err := s.repo.Collection.Update(ctx, collection); err != nil {
		return 0, err
	}
	return int(count), nil
}

// uniqueName 重名时追加 "(n)" 后缀
// 已有 Trip、Trip(1)、Trip(3) 时生成 Trip(4)，取最大序号加一
func (s *collectionService) uniqueName(ctx context.Context, base string) (string, error) {
	names, err := s.repo.Collection.ListNamesLike(ctx, base)
	if err != nil {
		return "", err
	}

	taken := make(map[string]struct{}, len(names))
	for _, name := range names {
		taken[name] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base, nil
	}

	maxSuffix := 0
	for name := range taken {
		var n int
		if _, err := fmt.Sscanf(name, base+"(%d)", &n); err == nil && n > maxSuffix {
			maxSuffix = n
		}
	}
	return fmt.Sprintf("%s(%d)", base, maxSuffix+1), nil
}

// processCover 解码 base64 封面，超过上限边长时等比缩小并统一转为 JPEG
func processCover(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrCoverInvalid
	}
	if len(raw) > coverMaxBytes {
		return nil, ErrCoverTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrCoverInvalid
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > coverMaxEdge || h > coverMaxEdge {
		scale := float64(coverMaxEdge) / float64(max(w, h))
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCollectionResponse(collection *model.Collection) *dto.CollectionResponse {
	return &dto.CollectionResponse{
		ID:          collection.ID,
		Name:        collection.Name,
		Description: collection.Description,
		HasCover:    len(collection.CoverImage) > 0,
		Importance:  collection.Importance,
		SortOrder:   collection.SortOrder,
		TicketCount: collection.TicketCount,
		CreatedAt:   collection.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   collection.UpdatedAt.Format(time.RFC3339),
		IsSelected:  collection.IsSelected,
	}
}
