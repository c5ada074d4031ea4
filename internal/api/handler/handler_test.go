package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/model"
	"github.com/Ta321487/TicketAssitant-sub000/internal/pdfimport"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	apperrors "github.com/Ta321487/TicketAssitant-sub000/pkg/errors"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试辅助 ──

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ── Mock ConnService ──

type mockConnService struct {
	loginResult *dto.LoginResponse
	loginErr    error
	ready       bool
}

func (m *mockConnService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockConnService) Profile() *dto.ConnectionProfileResponse {
	return &dto.ConnectionProfileResponse{Host: "localhost", Port: 3306}
}
func (m *mockConnService) Ready() bool { return m.ready }
func (m *mockConnService) Logout()     { m.ready = false }

// ── Mock StationService ──

type mockStationService struct {
	warmUpCalled bool
	searchResult *dto.StationSearchResponse
}

func (m *mockStationService) Create(_ context.Context, _ *dto.CreateStationRequest) (*dto.StationResponse, error) {
	return nil, nil
}
func (m *mockStationService) Get(_ context.Context, _ uint) (*dto.StationResponse, error) {
	return nil, service.ErrStationNotFound
}
func (m *mockStationService) Update(_ context.Context, _ uint, _ *dto.UpdateStationRequest) (*dto.StationResponse, error) {
	return nil, nil
}
func (m *mockStationService) Delete(_ context.Context, _ uint) error { return nil }
func (m *mockStationService) List(_ context.Context, _ *dto.StationListRequest) ([]dto.StationResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockStationService) Search(_ context.Context, _ string) (*dto.StationSearchResponse, error) {
	return m.searchResult, nil
}
func (m *mockStationService) Lookup(_ string) (*model.Station, error) {
	return nil, service.ErrStationNotFound
}
func (m *mockStationService) WarmUp()                        { m.warmUpCalled = true }
func (m *mockStationService) Reload(_ context.Context) error { return nil }

// ── Mock TicketService ──

type mockTicketService struct {
	createResult *dto.TicketResponse
	createErr    error
	getErr       error
}

func (m *mockTicketService) Create(_ context.Context, _ *dto.TicketPayload) (*dto.TicketResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTicketService) Get(_ context.Context, _ uint) (*dto.TicketResponse, error) {
	return nil, m.getErr
}
func (m *mockTicketService) Model(_ context.Context, _ uint) (*model.Ticket, error) {
	return nil, service.ErrTicketNotFound
}
func (m *mockTicketService) Update(_ context.Context, _ uint, _ *dto.TicketPayload) (*dto.TicketResponse, error) {
	return nil, nil
}
func (m *mockTicketService) Delete(_ context.Context, _ uint) error { return nil }
func (m *mockTicketService) BulkDelete(_ context.Context, ids []uint) (int64, error) {
	return int64(len(ids)), nil
}
func (m *mockTicketService) List(_ context.Context, _ *dto.TicketListRequest) ([]dto.TicketResponse, int64, error) {
	return []dto.TicketResponse{}, 0, nil
}
func (m *mockTicketService) Years(_ context.Context) ([]int, error)            { return []int{2025}, nil }
func (m *mockTicketService) TrainPrefixes(_ context.Context) ([]string, error) { return nil, nil }
func (m *mockTicketService) UsedDepartStations(_ context.Context) ([]string, error) {
	return nil, nil
}

// ── Mock GeoService ──

type mockGeoService struct {
	result *dto.GeoLookupResponse
	err    error
}

func (m *mockGeoService) Lookup(_ context.Context, _ string) (*dto.GeoLookupResponse, error) {
	return m.result, m.err
}

// ── Mock ImportService ──

type mockImportService struct {
	commitErr error
}

func (m *mockImportService) Parse(_ context.Context, _ *dto.ImportParseRequest) (*dto.ImportParseResponse, error) {
	return &dto.ImportParseResponse{SessionID: "s-1"}, nil
}
func (m *mockImportService) Unlock(_ context.Context, _ *dto.ImportUnlockRequest) (*dto.ImportParseResponse, error) {
	return nil, pdfimport.ErrSessionNotFound
}
func (m *mockImportService) Commit(_ context.Context, _ *dto.ImportCommitRequest) (*dto.ImportCommitResponse, error) {
	return nil, m.commitErr
}
func (m *mockImportService) Cancel(_ string) {}

// ── AuthHandler 测试 ──

func TestAuthHandler_Login_Success(t *testing.T) {
	conn := &mockConnService{
		loginResult: &dto.LoginResponse{Token: "session-token", Database: "tickets"},
	}
	station := &mockStationService{}
	h := NewAuthHandler(conn, station)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		Host: "localhost", Database: "tickets", User: "root", Password: "secret",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("期望200，实际%d", w.Code)
	}
	if !station.warmUpCalled {
		t.Error("登录成功后应触发登记簿预热")
	}
}

func TestAuthHandler_Login_AuthFailed(t *testing.T) {
	h := NewAuthHandler(&mockConnService{loginErr: service.ErrAuthFailed}, &mockStationService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望401，实际%d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("期望错误码11002，实际%d", resp.Code)
	}
}

func TestAuthHandler_Login_SchemaMissing(t *testing.T) {
	conn := &mockConnService{
		loginErr: &service.SchemaMissingError{Tables: []string{"ride_record"}},
	}
	station := &mockStationService{}
	h := NewAuthHandler(conn, station)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Password: "x"}))

	// 409 提示缺表，前端据此展示“立即建表”入口
	if w.Code != http.StatusConflict {
		t.Errorf("期望409，实际%d", w.Code)
	}
	if station.warmUpCalled {
		t.Error("登录失败不应触发登记簿预热")
	}
}

// ── TicketHandler 测试 ──

func TestTicketHandler_Create_ValidationDetails(t *testing.T) {
	verr := &apperrors.ValidationErrors{}
	verr.Add("出发站「幽灵」尚未登记，请先在车站登记簿中添加")
	verr.Add("票价不能为负数")

	h := NewTicketHandler(&mockTicketService{createErr: verr}, nil)

	r := gin.New()
	r.POST("/tickets", h.CreateTicket)
	w := doRequest(r, "POST", "/tickets", jsonBody(dto.TicketPayload{
		DepartStation: "幽灵", ArriveStation: "上海",
		TravelDate: "2025-10-01", TrainDigits: "1", TrainPrefix: "G",
	}))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("期望422，实际%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Details == "" {
		t.Error("聚合校验错误应逐条放入 details")
	}
}

func TestTicketHandler_Create_RegistryNotReady(t *testing.T) {
	h := NewTicketHandler(&mockTicketService{createErr: apperrors.ErrRegistryNotReady}, nil)

	r := gin.New()
	r.POST("/tickets", h.CreateTicket)
	w := doRequest(r, "POST", "/tickets", jsonBody(dto.TicketPayload{
		DepartStation: "北京", ArriveStation: "上海",
		TravelDate: "2025-10-01", TrainDigits: "1", TrainPrefix: "G",
	}))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望503，实际%d", w.Code)
	}
}

func TestTicketHandler_Get_BadID(t *testing.T) {
	h := NewTicketHandler(&mockTicketService{}, nil)

	r := gin.New()
	r.GET("/tickets/:id", h.GetTicket)
	w := doRequest(r, "GET", "/tickets/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际%d", w.Code)
	}
}

// ── GeoHandler 错误映射测试 ──

func TestGeoHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"Key未配置", service.ErrGeoKeyMissing, http.StatusPreconditionFailed},
		{"Key无效", service.ErrGeoKeyInvalid, http.StatusForbidden},
		{"配额用尽", service.ErrGeoQuotaExceeded, http.StatusTooManyRequests},
		{"无结果", service.ErrGeoNoResult, http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewGeoHandler(&mockGeoService{err: c.err})

			r := gin.New()
			r.GET("/geo/lookup", h.Lookup)
			w := doRequest(r, "GET", "/geo/lookup?station_name=北京", nil)

			if w.Code != c.want {
				t.Errorf("期望%d，实际%d", c.want, w.Code)
			}
		})
	}
}

// ── ImportHandler 测试 ──

func TestImportHandler_Commit_FieldLocked(t *testing.T) {
	h := NewImportHandler(&mockImportService{commitErr: pdfimport.ErrFieldLocked})

	r := gin.New()
	r.POST("/import/commit", h.Commit)
	w := doRequest(r, "POST", "/import/commit", jsonBody(dto.ImportCommitRequest{
		SessionID: "s-1",
		Overrides: map[string]string{"fare": "1.00"},
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("期望409，实际%d", w.Code)
	}
}
