package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
)

var ErrTicketNotFound = errors.New("车票记录不存在")

// travelDateLayout 行程日期的唯一存储格式
const travelDateLayout = "2006-01-02"

// 标志集合在接口层用英文键名传递，入库时转位掩码
var ticketTypeKeys = map[string]model.TicketType{
	"student":  model.TicketTypeStudent,
	"discount": model.TicketTypeDiscount,
	"online":   model.TicketTypeOnline,
	"child":    model.TicketTypeChild,
}

var paymentChannelKeys = map[string]model.PaymentChannel{
	"cash":     model.PaymentCash,
	"alipay":   model.PaymentAlipay,
	"wechat":   model.PaymentWeChat,
	"unionpay": model.PaymentUnionPay,
	"icbc":     model.PaymentICBC,
	"abc":      model.PaymentABC,
	"boc":      model.PaymentBOC,
	"ccb":      model.PaymentCCB,
}

// TicketService 乘车记录业务接口
type TicketService interface {
	Create(ctx context.Context, req *dto.TicketPayload) (*dto.TicketResponse, error)
	Get(ctx context.Context, id uint) (*dto.TicketResponse, error)
	// Model 返回车票模型本体，供渲染等需要完整字段的场景使用
	Model(ctx context.Context, id uint) (*model.Ticket, error)
	Update(ctx context.Context, id uint, req *dto.TicketPayload) (*dto.TicketResponse, error)
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	List(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error)
	// Years 库内出现过的年份，用于筛选下拉
	Years(ctx context.Context) ([]int, error)
	// TrainPrefixes 库内出现过的车次字母前缀
	TrainPrefixes(ctx context.Context) ([]string, error)
	// UsedDepartStations 我用过的出发站
	UsedDepartStations(ctx context.Context) ([]string, error)
}

type ticketService struct {
	repo    *repository.Repository
	station StationService
	logger  *zap.Logger
}

// NewTicketService 创建 TicketService 实例
func NewTicketService(repo *repository.Repository, station StationService, logger *zap.Logger) TicketService {
	return &ticketService{repo: repo, station: station, logger: logger}
}

func (s *ticketService) Create(ctx context.Context, req *dto.TicketPayload) (*dto.TicketResponse, error) {
	ticket, err := s.buildTicket(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("车票保存成功",
		zap.Uint("id", ticket.ID),
		zap.String("train", ticket.TrainNumber()),
	)
	return toTicketResponse(ticket), nil
}

func (s *ticketService) Get(ctx context.Context, id uint) (*dto.TicketResponse, error) {
	ticket, err := s.repo.Ticket.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return toTicketResponse(ticket), nil
}

func (s *ticketService) Model(ctx context.Context, id uint) (*model.Ticket, error) {
	ticket, err := s.repo.Ticket.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (s *ticketService) Update(ctx context.Context, id uint, req *dto.TicketPayload) (*dto.TicketResponse, error) {
	existing, err := s.repo.Ticket.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	ticket, err := s.buildTicket(req)
	if err != nil {
		return nil, err
	}
	ticket.ID = existing.ID
	ticket.CreatedAt = existing.CreatedAt

	if err := s.repo.Ticket.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return toTicketResponse(ticket), nil
}

func (s *ticketService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Ticket.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	return s.repo.Ticket.Delete(ctx, id)
}

func (s *ticketService) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	deleted, err := s.repo.Ticket.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("批量删除车票", zap.Int("requested", len(ids)), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *ticketService) List(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error) {
	filter := repository.TicketFilter{
		DepartStation:  model.WithStationSuffix(req.DepartStation),
		ArriveStation:  model.WithStationSuffix(req.ArriveStation),
		TrainPrefix:    req.TrainPrefix,
		Year:           req.Year,
		SeatClass:      req.SeatClass,
		OnlyUsedDepart: req.OnlyUsedDepart,
		CombineOr:      req.Combinator == "or",
		SortBy:         req.SortBy,
		SortDesc:       req.SortDesc,
	}

	offset := (req.Page - 1) * req.PageSize
	tickets, total, err := s.repo.Ticket.List(ctx, filter, offset, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		list = append(list, *toTicketResponse(&tickets[i]))
	}
	return list, total, nil
}

func (s *ticketService) Years(ctx context.Context) ([]int, error) {
	return s.repo.Ticket.DistinctYears(ctx)
}

func (s *ticketService) TrainPrefixes(ctx context.Context) ([]string, error) {
	return s.repo.Ticket.DistinctTrainPrefixes(ctx)
}

func (s *ticketService) UsedDepartStations(ctx context.Context) ([]string, error) {
	return s.repo.Ticket.DistinctDepartStations(ctx)
}

// buildTicket 校验载荷并组装模型
// 一次提交的全部问题汇总后整体返回，任何一条存在都不落库
func (s *ticketService) buildTicket(req *dto.TicketPayload) (*model.Ticket, error) {
	verr := &apperrors.ValidationErrors{}

	travelDate, err := time.Parse(travelDateLayout, req.TravelDate)
	if err != nil {
		verr.Add(fmt.Sprintf("行程日期格式错误，应为 yyyy-MM-dd: %s", req.TravelDate))
	}

	if req.Fare < 0 {
		verr.Add("票价不能为负数")
	}

	if !req.IsPureNumber && req.TrainPrefix == "" {
		verr.Add("非纯数字车次必须指定字母前缀")
	}
	if req.TrainDigits == "" {
		verr.Add("车次数字部分不能为空")
	}

	if !req.IsNoSeat && req.SeatNo == "" {
		verr.Add("非无座车票必须填写座位号")
	}

	depart, err := s.validateStation(req.DepartStation, "出发站", verr)
	if err != nil {
		return nil, err
	}
	arrive, err := s.validateStation(req.ArriveStation, "到达站", verr)
	if err != nil {
		return nil, err
	}

	ticketTypes, err := parseTicketTypes(req.TicketTypeFlags)
	if err != nil {
		verr.Add(err.Error())
	}
	paymentChannels, err := parsePaymentChannels(req.PaymentChannelFlags)
	if err != nil {
		verr.Add(err.Error())
	}

	if verr.HasErrors() {
		return nil, verr
	}

	ticket := &model.Ticket{
		SerialNumber:     req.SerialNumber,
		CheckInGate:      req.CheckInGate,
		DepartStation:    model.WithStationSuffix(req.DepartStation),
		ArriveStation:    model.WithStationSuffix(req.ArriveStation),
		Fare:             req.Fare,
		TravelDate:       travelDate,
		TravelTime:       req.TravelTime,
		TrainPrefix:      req.TrainPrefix,
		IsPureNumber:     req.IsPureNumber,
		TrainDigits:      req.TrainDigits,
		CoachNo:          req.CoachNo,
		IsExtraCoach:     req.IsExtraCoach,
		SeatNo:           req.SeatNo,
		IsNoSeat:         req.IsNoSeat,
		SeatPosition:     req.SeatPosition,
		SeatClass:        req.SeatClass,
		AdditionalInfo:   req.AdditionalInfo,
		Purpose:          req.Purpose,
		Hint:             req.Hint,
		ModificationType: model.ModificationType(req.ModificationType),
		TicketTypes:      ticketTypes,
		PaymentChannels:  paymentChannels,
	}

	// 登记簿中有该站时顺带冗余拼音与电报码，便于列表检索
	if depart != nil {
		ticket.DepartPhonetic = depart.Phonetic
		ticket.DepartCode = depart.Code
	}
	if arrive != nil {
		ticket.ArrivePhonetic = arrive.Phonetic
		ticket.ArriveCode = arrive.Code
	}
	return ticket, nil
}

// validateStation 站名必须已在登记簿中
// 登记簿未就绪时直接返回 ErrRegistryNotReady，由调用方稍后重试，不做同步等待
func (s *ticketService) validateStation(name, label string, verr *apperrors.ValidationErrors) (*model.Station, error) {
	if model.NormalizeStationName(name) == "" {
		verr.Add(fmt.Sprintf("%s不能为空", label))
		return nil, nil
	}
	station, err := s.station.Lookup(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrRegistryNotReady) {
			return nil, err
		}
		if errors.Is(err, ErrStationNotFound) {
			verr.Add(fmt.Sprintf("%s「%s」尚未登记，请先在车站登记簿中添加", label, model.NormalizeStationName(name)))
		}
		return nil, nil
	}
	return station, nil
}

func parseTicketTypes(keys []string) (model.TicketTypeSet, error) {
	var set model.TicketTypeSet
	for _, key := range keys {
		t, ok := ticketTypeKeys[key]
		if !ok {
			return 0, fmt.Errorf("未知的票种标志: %s", key)
		}
		set = set.With(t)
	}
	return set, nil
}

func parsePaymentChannels(keys []string) (model.PaymentChannelSet, error) {
	var set model.PaymentChannelSet
	for _, key := range keys {
		p, ok := paymentChannelKeys[key]
		if !ok {
			return 0, fmt.Errorf("未知的支付渠道: %s", key)
		}
		set = set.With(p)
	}
	return set, nil
}

func ticketTypeKeyList(set model.TicketTypeSet) []string {
	keys := make([]string, 0, 4)
	for _, pair := range []struct {
		key string
		t   model.TicketType
	}{
		{"student", model.TicketTypeStudent},
		{"discount", model.TicketTypeDiscount},
		{"online", model.TicketTypeOnline},
		{"child", model.TicketTypeChild},
	} {
		if set.Has(pair.t) {
			keys = append(keys, pair.key)
		}
	}
	return keys
}

func paymentChannelKeyList(set model.PaymentChannelSet) []string {
	keys := make([]string, 0, 2)
	for _, pair := range []struct {
		key string
		p   model.PaymentChannel
	}{
		{"cash", model.PaymentCash},
		{"alipay", model.PaymentAlipay},
		{"wechat", model.PaymentWeChat},
		{"unionpay", model.PaymentUnionPay},
		{"icbc", model.PaymentICBC},
		{"abc", model.PaymentABC},
		{"boc", model.PaymentBOC},
		{"ccb", model.PaymentCCB},
	} {
		if set.Has(pair.p) {
			keys = append(keys, pair.key)
		}
	}
	return keys
}

func toTicketResponse(ticket *model.Ticket) *dto.TicketResponse {
	return &dto.TicketResponse{
		ID:               ticket.ID,
		SerialNumber:     ticket.SerialNumber,
		CheckInGate:      ticket.CheckInGate,
		DepartStation:    ticket.DepartStation,
		DepartPhonetic:   ticket.DepartPhonetic,
		DepartCode:       ticket.DepartCode,
		ArriveStation:    ticket.ArriveStation,
		ArrivePhonetic:   ticket.ArrivePhonetic,
		ArriveCode:       ticket.ArriveCode,
		Fare:             ticket.Fare,
		TravelDate:       ticket.TravelDate.Format(travelDateLayout),
		TravelTime:       ticket.TravelTime,
		TrainNumber:      ticket.TrainNumber(),
		TrainPrefix:      ticket.TrainPrefix,
		IsPureNumber:     ticket.IsPureNumber,
		TrainDigits:      ticket.TrainDigits,
		CoachNo:          ticket.CoachNo,
		IsExtraCoach:     ticket.IsExtraCoach,
		SeatNo:           ticket.SeatNo,
		IsNoSeat:         ticket.IsNoSeat,
		SeatPosition:     ticket.SeatPosition,
		SeatClass:        ticket.SeatClass,
		AdditionalInfo:   ticket.AdditionalInfo,
		Purpose:          ticket.Purpose,
		Hint:             ticket.Hint,
		ModificationType: int(ticket.ModificationType),
		TicketTypes:      ticketTypeKeyList(ticket.TicketTypes),
		PaymentChannel:   paymentChannelKeyList(ticket.PaymentChannels),
		IsSelected:       ticket.IsSelected,
	}
}
