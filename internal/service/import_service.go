package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"unicode"

	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/pdfimport"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
)

var ErrImportBadContent = errors.New("上传内容不是有效的 base64 编码")

// ImportService PDF 车票导入业务接口
//
// 流程：Parse 建立会话并提取字段（成功后全部锁定）→ Unlock 逐字段解锁
// → Commit 应用改写、校验并落库。校验失败回到可编辑状态，会话不销毁。
type ImportService interface {
	Parse(ctx context.Context, req *dto.ImportParseRequest) (*dto.ImportParseResponse, error)
	Unlock(ctx context.Context, req *dto.ImportUnlockRequest) (*dto.ImportParseResponse, error)
	Commit(ctx context.Context, req *dto.ImportCommitRequest) (*dto.ImportCommitResponse, error)
	Cancel(sessionID string)
}

type importService struct {
	ticket TicketService
	store  *pdfimport.Store
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(ticket TicketService, logger *zap.Logger) ImportService {
	return &importService{
		ticket: ticket,
		store:  pdfimport.NewStore(),
		logger: logger,
	}
}

func (s *importService) Parse(ctx context.Context, req *dto.ImportParseRequest) (*dto.ImportParseResponse, error) {
	raw, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return nil, ErrImportBadContent
	}

	session := s.store.Begin()

	text, err := pdfimport.ExtractText(raw)
	if err != nil {
		s.logger.Warn("PDF 文本提取失败",
			zap.String("file", req.FileName), zap.Error(err))
		session.MarkParseFailed()
		return toParseResponse(session), nil
	}

	fields, err := pdfimport.Parse(text)
	if err != nil {
		if errors.Is(err, pdfimport.ErrNoPattern) {
			s.logger.Info("未识别出车票版式，转入手工录入",
				zap.String("file", req.FileName))
			session.MarkParseFailed()
			return toParseResponse(session), nil
		}
		s.store.Remove(session.ID)
		return nil, err
	}

	session.MarkParsed(fields)
	s.logger.Info("PDF 车票解析成功",
		zap.String("file", req.FileName),
		zap.Int("fields", len(fields)),
	)
	return toParseResponse(session), nil
}

func (s *importService) Unlock(ctx context.Context, req *dto.ImportUnlockRequest) (*dto.ImportParseResponse, error) {
	session, err := s.store.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	session.Unlock(req.Fields)
	return toParseResponse(session), nil
}

func (s *importService) Commit(ctx context.Context, req *dto.ImportCommitRequest) (*dto.ImportCommitResponse, error) {
	session, err := s.store.Get(req.SessionID)
	if err != nil {
		return nil, err
	}

	for field, value := range req.Overrides {
		if err := session.Override(field, value); err != nil {
			return nil, err
		}
	}

	if err := session.BeginValidation(); err != nil {
		return nil, err
	}

	payload := fieldsToPayload(session.Fields)
	created, err := s.ticket.Create(ctx, payload)
	if err != nil {
		if _, ok := apperrors.AsValidation(err); ok {
			session.MarkValidationFailed()
		}
		return nil, err
	}

	session.MarkSaved()
	s.store.Remove(session.ID)
	return &dto.ImportCommitResponse{
		State:    string(pdfimport.StateSaved),
		TicketID: created.ID,
	}, nil
}

func (s *importService) Cancel(sessionID string) {
	s.store.Remove(sessionID)
}

// fieldsToPayload 将提取字段映射为车票载荷
func fieldsToPayload(fields map[string]string) *dto.TicketPayload {
	payload := &dto.TicketPayload{
		SerialNumber:   fields[pdfimport.FieldSerialNumber],
		CheckInGate:    fields[pdfimport.FieldCheckInGate],
		DepartStation:  fields[pdfimport.FieldDepartStation],
		ArriveStation:  fields[pdfimport.FieldArriveStation],
		TravelDate:     fields[pdfimport.FieldTravelDate],
		TravelTime:     fields[pdfimport.FieldTravelTime],
		CoachNo:        fields[pdfimport.FieldCoachNo],
		SeatNo:         fields[pdfimport.FieldSeatNo],
		SeatPosition:   fields[pdfimport.FieldSeatPosition],
		SeatClass:      fields[pdfimport.FieldSeatClass],
		AdditionalInfo: fields[pdfimport.FieldAdditional],
	}

	if fare, err := strconv.ParseFloat(fields[pdfimport.FieldFare], 64); err == nil {
		payload.Fare = fare
	}
	payload.IsNoSeat = fields[pdfimport.FieldNoSeat] == "true"

	prefix, digits, pureNumber := splitTrainNumber(fields[pdfimport.FieldTrainNumber])
	payload.TrainPrefix = prefix
	payload.TrainDigits = digits
	payload.IsPureNumber = pureNumber

	return payload
}

// splitTrainNumber 拆出车次的字母前缀与数字部分
func splitTrainNumber(trainNumber string) (prefix, digits string, pureNumber bool) {
	if trainNumber == "" {
		return "", "", false
	}
	runes := []rune(trainNumber)
	if unicode.IsLetter(runes[0]) {
		return string(runes[0]), string(runes[1:]), false
	}
	return "", trainNumber, true
}

func toParseResponse(session *pdfimport.Session) *dto.ImportParseResponse {
	return &dto.ImportParseResponse{
		SessionID: session.ID,
		State:     string(session.State),
		Parsed:    session.State == pdfimport.StateParsed,
		Fields:    session.Fields,
		Locked:    session.Locked,
	}
}
