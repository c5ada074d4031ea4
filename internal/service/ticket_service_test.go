package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
)

// ── 测试辅助 ──

func setupTestTicketService(t *testing.T) (TicketService, StationService) {
	t.Helper()
	repo := newTestRepository()
	logger := zap.NewNop()
	station := NewStationService(repo, logger)
	ticket := NewTicketService(repo, station, logger)

	registerStation(t, station, "北京", "beijing", "BJP")
	registerStation(t, station, "上海", "shanghai", "SHH")
	if err := station.Reload(context.Background()); err != nil {
		t.Fatalf("Reload 应成功: %v", err)
	}
	return ticket, station
}

func validTicketPayload() *dto.TicketPayload {
	return &dto.TicketPayload{
		DepartStation:       "北京",
		ArriveStation:       "上海",
		Fare:                553.0,
		TravelDate:          "2025-10-01",
		TravelTime:          "09:00",
		TrainPrefix:         "G",
		TrainDigits:         "1",
		CoachNo:             "05",
		SeatNo:              "012",
		SeatPosition:        "A",
		SeatClass:           "二等座",
		TicketTypeFlags:     []string{"online"},
		PaymentChannelFlags: []string{"alipay"},
	}
}

// ── Create 测试 ──

func TestTicketService_Create_Success(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	result, err := svc.Create(context.Background(), validTicketPayload())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.DepartStation != "北京站" {
		t.Errorf("落库站名应带后缀，期望=北京站，实际=%s", result.DepartStation)
	}
	if result.DepartCode != "BJP" {
		t.Errorf("应从登记簿冗余电报码，期望=BJP，实际=%s", result.DepartCode)
	}
	if result.TrainNumber != "G1" {
		t.Errorf("期望车次=G1，实际=%s", result.TrainNumber)
	}
	if len(result.TicketTypes) != 1 || result.TicketTypes[0] != "online" {
		t.Errorf("期望票种=[online]，实际=%v", result.TicketTypes)
	}
}

func TestTicketService_Create_AggregatedValidation(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	// 多处错误应一次性汇总返回，而不是只报第一条
	payload := validTicketPayload()
	payload.TravelDate = "2025/10/01"
	payload.ArriveStation = "乌鲁木齐"
	payload.TrainPrefix = ""
	payload.IsPureNumber = false

	_, err := svc.Create(context.Background(), payload)
	verr, ok := apperrors.AsValidation(err)
	if !ok {
		t.Fatalf("期望聚合校验错误，实际: %v", err)
	}
	if len(verr.Items) != 3 {
		t.Errorf("期望3条校验错误，实际=%d: %v", len(verr.Items), verr.Items)
	}
	if !strings.Contains(verr.Error(), "乌鲁木齐") {
		t.Errorf("错误信息应指出未登记的站名: %s", verr.Error())
	}
}

func TestTicketService_Create_RegistryNotReady(t *testing.T) {
	repo := newTestRepository()
	logger := zap.NewNop()
	station := NewStationService(repo, logger)
	svc := NewTicketService(repo, station, logger)

	// 登记簿未加载时不同步等待，直接让调用方稍后重试
	_, err := svc.Create(context.Background(), validTicketPayload())
	if !errors.Is(err, apperrors.ErrRegistryNotReady) {
		t.Errorf("期望 ErrRegistryNotReady，实际: %v", err)
	}
}

func TestTicketService_Create_NoSeat(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	payload := validTicketPayload()
	payload.IsNoSeat = true
	payload.SeatNo = ""
	payload.SeatPosition = ""

	result, err := svc.Create(context.Background(), payload)
	if err != nil {
		t.Fatalf("无座票 Create 应成功: %v", err)
	}
	if !result.IsNoSeat {
		t.Error("期望 IsNoSeat=true")
	}
}

func TestTicketService_Create_UnknownFlag(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	payload := validTicketPayload()
	payload.TicketTypeFlags = []string{"vip"}

	_, err := svc.Create(context.Background(), payload)
	if _, ok := apperrors.AsValidation(err); !ok {
		t.Errorf("未知票种标志应归入聚合校验错误，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestTicketService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	_, err := svc.Update(context.Background(), 999, validTicketPayload())
	if !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("期望 ErrTicketNotFound，实际: %v", err)
	}
}

func TestTicketService_Update_Success(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	created, err := svc.Create(context.Background(), validTicketPayload())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	payload := validTicketPayload()
	payload.Fare = 600.5
	updated, err := svc.Update(context.Background(), created.ID, payload)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Fare != 600.5 {
		t.Errorf("期望票价=600.5，实际=%v", updated.Fare)
	}
	if updated.ID != created.ID {
		t.Errorf("更新不应改变 ID，期望=%d，实际=%d", created.ID, updated.ID)
	}
}

// ── List / BulkDelete 测试 ──

func TestTicketService_List_FilterAndCombinator(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	first := validTicketPayload()
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	second := validTicketPayload()
	second.DepartStation = "上海"
	second.ArriveStation = "北京"
	second.TrainPrefix = "D"
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// AND：出发站=北京 且 前缀=D → 无命中
	list, total, err := svc.List(context.Background(), &dto.TicketListRequest{
		DepartStation: "北京",
		TrainPrefix:   "D",
		Page:          1,
		PageSize:      20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Errorf("AND 组合期望0条，实际=%d", total)
	}

	// OR：出发站=北京 或 前缀=D → 两条都命中
	_, total, err = svc.List(context.Background(), &dto.TicketListRequest{
		DepartStation: "北京",
		TrainPrefix:   "D",
		Combinator:    "or",
		Page:          1,
		PageSize:      20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("OR 组合期望2条，实际=%d", total)
	}
}

func TestTicketService_List_OnlyUsedDepart(t *testing.T) {
	svc, station := setupTestTicketService(t)
	registerStation(t, station, "南京", "nanjing", "NJH")

	first := validTicketPayload() // 北京 → 上海
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	second := validTicketPayload()
	second.DepartStation = "南京"
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 默认模糊匹配："京" 同时命中北京站与南京站
	_, total, err := svc.List(context.Background(), &dto.TicketListRequest{
		DepartStation: "京",
		Page:          1,
		PageSize:      20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("模糊匹配期望2条，实际=%d", total)
	}

	// 限定已用出发站时条件来自下拉的完整站名，按精确匹配
	list, total, err := svc.List(context.Background(), &dto.TicketListRequest{
		DepartStation:  "北京",
		OnlyUsedDepart: true,
		Page:           1,
		PageSize:       20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 {
		t.Fatalf("限定已用出发站期望1条，实际=%d", total)
	}
	if list[0].DepartStation != "北京站" {
		t.Errorf("期望出发站=北京站，实际=%s", list[0].DepartStation)
	}

	// 开启限定后片段不再模糊放宽
	_, total, err = svc.List(context.Background(), &dto.TicketListRequest{
		DepartStation:  "京",
		OnlyUsedDepart: true,
		Page:           1,
		PageSize:       20,
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 0 {
		t.Errorf("片段不是完整已用站名，期望0条，实际=%d", total)
	}
}

func TestTicketService_BulkDelete(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	first, _ := svc.Create(context.Background(), validTicketPayload())
	second, _ := svc.Create(context.Background(), validTicketPayload())

	// 含一个不存在的 ID，返回实际删除数
	deleted, err := svc.BulkDelete(context.Background(), []uint{first.ID, second.ID, 999})
	if err != nil {
		t.Fatalf("BulkDelete 应成功: %v", err)
	}
	if deleted != 2 {
		t.Errorf("期望删除2条，实际=%d", deleted)
	}
}

func TestTicketService_Years(t *testing.T) {
	svc, _ := setupTestTicketService(t)

	payload := validTicketPayload()
	payload.TravelDate = "2023-05-01"
	_, _ = svc.Create(context.Background(), payload)
	_, _ = svc.Create(context.Background(), validTicketPayload())

	years, err := svc.Years(context.Background())
	if err != nil {
		t.Fatalf("Years 应成功: %v", err)
	}
	if len(years) != 2 || years[0] != 2025 || years[1] != 2023 {
		t.Errorf("期望[2025 2023]，实际=%v", years)
	}
}
