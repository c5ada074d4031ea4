package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/config"
)

// ── 测试辅助 ──

// setupTestGeoService 把地理编码请求指向本地 httptest 服务
func setupTestGeoService(t *testing.T, handler http.HandlerFunc, key string) GeoService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AmapConfig{
		Key:      key,
		Endpoint: server.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Hour,
	}
	return NewGeoService(cfg, nil, zap.NewNop())
}

func geoOKHandler(calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		fmt.Fprint(w, `{
			"status": "1", "info": "OK", "infocode": "10000",
			"geocodes": [{
				"province": "北京市", "city": "北京市", "district": "东城区",
				"location": "116.427100,39.902800"
			}]
		}`)
	}
}

// ── Lookup 测试 ──

func TestGeoService_Lookup_Success(t *testing.T) {
	calls := 0
	svc := setupTestGeoService(t, geoOKHandler(&calls), "test-key")

	result, err := svc.Lookup(context.Background(), "北京站")
	if err != nil {
		t.Fatalf("Lookup 应成功: %v", err)
	}
	if result.Province != "北京市" || result.District != "东城区" {
		t.Errorf("行政区划解析错误: %+v", result)
	}
	if result.Longitude != 116.4271 || result.Latitude != 39.9028 {
		t.Errorf("坐标解析错误: %+v", result)
	}
	if result.FromCache {
		t.Error("首次查询不应命中缓存")
	}
}

func TestGeoService_Lookup_CachesResult(t *testing.T) {
	calls := 0
	svc := setupTestGeoService(t, geoOKHandler(&calls), "test-key")

	if _, err := svc.Lookup(context.Background(), "北京"); err != nil {
		t.Fatalf("Lookup 应成功: %v", err)
	}
	// 带后缀与不带后缀应命中同一缓存键
	result, err := svc.Lookup(context.Background(), "北京站")
	if err != nil {
		t.Fatalf("Lookup 应成功: %v", err)
	}
	if !result.FromCache {
		t.Error("第二次查询应命中缓存")
	}
	if calls != 1 {
		t.Errorf("外部服务应只被调用1次，实际=%d", calls)
	}
}

func TestGeoService_Lookup_KeyMissing(t *testing.T) {
	calls := 0
	svc := setupTestGeoService(t, geoOKHandler(&calls), "")

	_, err := svc.Lookup(context.Background(), "北京")
	if !errors.Is(err, ErrGeoKeyMissing) {
		t.Errorf("期望 ErrGeoKeyMissing，实际: %v", err)
	}
	if calls != 0 {
		t.Error("未配置 Key 时不应发起外部请求")
	}
}

func TestGeoService_Lookup_KeyInvalid(t *testing.T) {
	svc := setupTestGeoService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","info":"INVALID_USER_KEY","infocode":"10001"}`)
	}, "bad-key")

	_, err := svc.Lookup(context.Background(), "北京")
	if !errors.Is(err, ErrGeoKeyInvalid) {
		t.Errorf("期望 ErrGeoKeyInvalid，实际: %v", err)
	}
}

func TestGeoService_Lookup_QuotaExceeded(t *testing.T) {
	svc := setupTestGeoService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","info":"DAILY_QUERY_OVER_LIMIT","infocode":"10003"}`)
	}, "test-key")

	_, err := svc.Lookup(context.Background(), "北京")
	if !errors.Is(err, ErrGeoQuotaExceeded) {
		t.Errorf("期望 ErrGeoQuotaExceeded，实际: %v", err)
	}
}

func TestGeoService_Lookup_NoResult(t *testing.T) {
	svc := setupTestGeoService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"1","info":"OK","infocode":"10000","geocodes":[]}`)
	}, "test-key")

	_, err := svc.Lookup(context.Background(), "不存在的站")
	if !errors.Is(err, ErrGeoNoResult) {
		t.Errorf("期望 ErrGeoNoResult，实际: %v", err)
	}
}

func TestGeoService_Lookup_ServerError(t *testing.T) {
	svc := setupTestGeoService(t, func(w http.ResponseWriter, r *http.Request) {
		// 网关故障时返回的是 HTML 错误页而非 JSON
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html><body>502 Bad Gateway</body></html>")
	}, "test-key")

	_, err := svc.Lookup(context.Background(), "北京")
	if err == nil {
		t.Fatal("期望返回错误")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("错误信息应携带 HTTP 状态而非解析失败: %v", err)
	}
}

func TestGeoService_Lookup_GenericError(t *testing.T) {
	svc := setupTestGeoService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"0","info":"UNKNOWN_ERROR","infocode":"29999"}`)
	}, "test-key")

	_, err := svc.Lookup(context.Background(), "北京")
	if err == nil {
		t.Fatal("期望返回错误")
	}
	// 其余错误不归入任何专用类别
	for _, sentinel := range []error{ErrGeoKeyMissing, ErrGeoKeyInvalid, ErrGeoQuotaExceeded, ErrGeoNoResult} {
		if errors.Is(err, sentinel) {
			t.Errorf("通用错误不应归入 %v", sentinel)
		}
	}
}
