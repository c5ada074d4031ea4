package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, TicketService) {
	t.Helper()
	repo := newTestRepository()
	logger := zap.NewNop()
	station := NewStationService(repo, logger)
	ticket := NewTicketService(repo, station, logger)
	export := NewExportService(repo, logger)

	registerStation(t, station, "北京", "beijing", "BJP")
	registerStation(t, station, "上海", "shanghai", "SHH")
	if err := station.Reload(context.Background()); err != nil {
		t.Fatalf("Reload 应成功: %v", err)
	}
	return export, ticket
}

// ── TicketsXLSX 测试 ──

func TestExportService_TicketsXLSX(t *testing.T) {
	export, ticket := setupTestExportService(t)

	first := validTicketPayload()
	if _, err := ticket.Create(context.Background(), first); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	second := validTicketPayload()
	second.Fare = 47.0
	if _, err := ticket.Create(context.Background(), second); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	raw, err := export.TicketsXLSX(context.Background(), &dto.TicketListRequest{})
	if err != nil {
		t.Fatalf("TicketsXLSX 应成功: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("乘车记录")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 2 条记录 + 合计行
	if len(rows) != 4 {
		t.Fatalf("期望4行，实际=%d", len(rows))
	}
	if rows[0][2] != "车次" {
		t.Errorf("表头错误: %v", rows[0])
	}
	if rows[1][2] != "G1" {
		t.Errorf("期望车次=G1，实际=%s", rows[1][2])
	}
	if !strings.Contains(rows[3][0], "2") {
		t.Errorf("合计行应含记录数: %v", rows[3])
	}
	if rows[3][7] != "600" {
		t.Errorf("期望票价合计=600，实际=%s", rows[3][7])
	}
}

// ── TicketICS 测试 ──

func TestExportService_TicketICS(t *testing.T) {
	export, ticket := setupTestExportService(t)

	created, err := ticket.Create(context.Background(), validTicketPayload())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	raw, err := export.TicketICS(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("TicketICS 应成功: %v", err)
	}

	content := string(raw)
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("输出应为 iCalendar 格式")
	}
	if !strings.Contains(content, "G1") {
		t.Errorf("事件标题应含车次: %s", content)
	}
	if !strings.Contains(content, "DTSTART") {
		t.Errorf("事件应带开始时间: %s", content)
	}
}

func TestExportService_TicketICS_AllDayWithoutTime(t *testing.T) {
	export, ticket := setupTestExportService(t)

	payload := validTicketPayload()
	payload.TravelTime = ""
	created, err := ticket.Create(context.Background(), payload)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	raw, err := export.TicketICS(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("TicketICS 应成功: %v", err)
	}
	if !strings.Contains(string(raw), "VALUE=DATE") {
		t.Error("无发车时刻的车票应导出为全天事件")
	}
}
