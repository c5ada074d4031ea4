package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
)

// ExportService 导出业务接口
type ExportService interface {
	// TicketsXLSX 按当前筛选导出车票清单，末行为票价合计
	TicketsXLSX(ctx context.Context, req *dto.TicketListRequest) ([]byte, error)
	// TicketICS 将单张车票导出为日历事件
	TicketICS(ctx context.Context, ticketID uint) ([]byte, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const xlsxSheetName = "乘车记录"

var xlsxHeaders = []string{
	"序号", "乘车日期", "车次", "出发站", "到达站",
	"座位", "席别", "票价(元)", "检票口", "票号",
}

func (s *exportService) TicketsXLSX(ctx context.Context, req *dto.TicketListRequest) ([]byte, error) {
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

	// 导出不分页，一次取全量
	tickets, _, err := s.repo.Ticket.List(ctx, filter, 0, -1)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(xlsxSheetName, "A", "A", 6)
	_ = f.SetColWidth(xlsxSheetName, "B", "E", 14)
	_ = f.SetColWidth(xlsxSheetName, "F", "J", 12)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(xlsxSheetName, cell, header)
		_ = f.SetCellStyle(xlsxSheetName, cell, cell, headerStyle)
	}

	var totalFare float64
	for i := range tickets {
		t := &tickets[i]
		row := i + 2
		values := []interface{}{
			i + 1,
			t.TravelDate.Format(travelDateLayout),
			t.TrainNumber(),
			t.DepartStation,
			t.ArriveStation,
			t.SeatLabel(),
			t.SeatClass,
			t.Fare,
			t.CheckInGate,
			t.SerialNumber,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(xlsxSheetName, cell, value)
		}
		totalFare += t.Fare
	}

	summaryRow := len(tickets) + 2
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	_ = f.SetCellValue(xlsxSheetName, cell, fmt.Sprintf("共 %d 条记录", len(tickets)))
	cell, _ = excelize.CoordinatesToCellName(8, summaryRow)
	_ = f.SetCellValue(xlsxSheetName, cell, totalFare)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	s.logger.Info("车票清单导出完成", zap.Int("count", len(tickets)))
	return buf.Bytes(), nil
}

func (s *exportService) TicketICS(ctx context.Context, ticketID uint) ([]byte, error) {
	ticket, err := s.repo.Ticket.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	start := ticket.TravelDate
	allDay := ticket.TravelTime == ""
	if !allDay {
		if t, err := time.Parse("15:04", ticket.TravelTime); err == nil {
			start = time.Date(
				start.Year(), start.Month(), start.Day(),
				t.Hour(), t.Minute(), 0, 0, time.Local,
			)
		} else {
			allDay = true
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TicketAssistant//Ride Record//CN")

	event := cal.AddEvent(fmt.Sprintf("ride-%d@ticketassistant", ticket.ID))
	event.SetSummary(fmt.Sprintf("%s %s → %s",
		ticket.TrainNumber(), ticket.DepartStation, ticket.ArriveStation))
	event.SetLocation(ticket.DepartStation)
	event.SetDescription(fmt.Sprintf("座位: %s 席别: %s 票价: %.2f 元",
		ticket.SeatLabel(), ticket.SeatClass, ticket.Fare))
	event.SetDtStampTime(time.Now())
	if allDay {
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
	} else {
		event.SetStartAt(start)
		event.SetEndAt(start.Add(2 * time.Hour))
	}

	return []byte(cal.Serialize()), nil
}
