package service

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
)

func newTestConfig() *config.Config {
	return &config.Config{}
}

// ── 错误分类测试 ──

func TestClassifyOpenError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"认证失败", errors.New("Error 1045: Access denied for user 'root'@'localhost'"), ErrAuthFailed},
		{"库不存在", errors.New("Error 1049: Unknown database 'tickets'"), ErrDatabaseUnknown},
	}
	for _, c := range cases {
		if got := classifyOpenError(c.in); !errors.Is(got, c.want) {
			t.Errorf("%s: 期望 %v，实际 %v", c.name, c.want, got)
		}
	}

	// 其余错误原样透传
	raw := errors.New("Error 1040: Too many connections")
	if got := classifyOpenError(raw); !errors.Is(got, raw) {
		t.Errorf("未知错误应原样返回，实际 %v", got)
	}
}

func TestProbe_PortClosed(t *testing.T) {
	// 端口 1 基本不会有服务监听
	err := probe("127.0.0.1:1")
	if !errors.Is(err, ErrPortClosed) && !errors.Is(err, ErrServerUnreachable) {
		t.Errorf("期望连接类错误，实际: %v", err)
	}
}

// ── 档案回落测试 ──

func TestConnService_MergeProfile(t *testing.T) {
	cfg := newTestConfig()
	cfg.DB.Host = "db.local"
	cfg.DB.Port = 3306
	cfg.DB.Name = "tickets"
	cfg.DB.User = "saved-user"
	cfg.DB.Password = "saved-pass"

	svc := &connService{cfg: cfg}

	// 仅覆盖密码，其余字段回落到档案
	merged := svc.mergeProfile(&dto.LoginRequest{Password: "typed-pass"})
	if merged.Host != "db.local" || merged.User != "saved-user" {
		t.Errorf("留空字段应回落到档案: %+v", merged)
	}
	if merged.Password != "typed-pass" {
		t.Errorf("期望密码=typed-pass，实际=%s", merged.Password)
	}

	merged = svc.mergeProfile(&dto.LoginRequest{Host: "other.host", Port: 3307})
	if merged.Host != "other.host" || merged.Port != 3307 {
		t.Errorf("请求字段应覆盖档案: %+v", merged)
	}
}

// ── 重复登录连接池回收测试 ──

// openLazyDB 构造不实际拨号的 gorm 连接，供重绑测试使用
func openLazyDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	sqlDB, err := sql.Open("mysql", "root:pw@tcp(127.0.0.1:1)/tickets")
	if err != nil {
		t.Fatalf("打开惰性连接池失败: %v", err)
	}
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("构造 gorm 连接失败: %v", err)
	}
	return db, sqlDB
}

func TestConnService_RebindClosesOldPool(t *testing.T) {
	oldDB, oldSQL := openLazyDB(t)
	newDB, newSQL := openLazyDB(t)
	defer newSQL.Close()

	svc := &connService{
		cfg:    newTestConfig(),
		repo:   newTestRepository(),
		logger: zap.NewNop(),
	}

	svc.rebind(oldDB)
	if !svc.Ready() {
		t.Fatal("重绑后应处于就绪状态")
	}

	// 再次登录换入新连接，旧连接池必须随之关闭
	svc.rebind(newDB)
	if err := oldSQL.Ping(); err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Errorf("旧连接池应已关闭，Ping 实际返回: %v", err)
	}
	if err := newSQL.Ping(); err != nil && strings.Contains(err.Error(), "database is closed") {
		t.Error("新连接池不应被关闭")
	}
}

func TestSchemaMissingError_Message(t *testing.T) {
	err := &SchemaMissingError{Tables: []string{"ride_record", "station_info"}}
	want := "缺少必需的数据表: ride_record, station_info"
	if err.Error() != want {
		t.Errorf("期望 %q，实际 %q", want, err.Error())
	}
}
