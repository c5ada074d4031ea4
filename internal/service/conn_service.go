package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/dto"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/database"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/jwt"
)

// ── 连接模块业务错误 ──
// 每个子情形带独立的排查建议，由 Handler 放入 details 字段

var (
	ErrServerUnreachable = errors.New("无法连接到数据库服务器，请检查主机地址是否正确、服务器是否已启动")
	ErrPortClosed        = errors.New("目标端口拒绝连接，请检查端口号是否正确（MySQL 默认 3306）")
	ErrAuthFailed        = errors.New("用户名或密码错误，请重新输入")
	ErrDatabaseUnknown   = errors.New("指定的数据库不存在，请确认库名或先创建该库")
	ErrNotConnected      = errors.New("尚未登录数据库")
)

// SchemaMissingError 必需表缺失
// Handler 将其翻译为“立即建表”修复提示而非硬失败
type SchemaMissingError struct {
	Tables []string
}

func (e *SchemaMissingError) Error() string {
	return fmt.Sprintf("缺少必需的数据表: %s", strings.Join(e.Tables, ", "))
}

// ConnService 登录/连接业务接口
type ConnService interface {
	// Login 探测连通性、验证凭据、检查并按需修复表结构，成功后签发会话令牌
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Profile 返回保存的连接档案与最近使用的数据库名
	Profile() *dto.ConnectionProfileResponse
	// Ready 是否已持有可用的数据库连接
	Ready() bool
	// Logout 丢弃当前连接状态（令牌由客户端自行废弃）
	Logout()
}

type connService struct {
	cfg    *config.Config
	db     *gorm.DB
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
	ready  atomic.Bool
}

// NewConnService 创建 ConnService 实例
// db 为启动时按保存档案建立的连接，可为 nil（等待登录）
func NewConnService(cfg *config.Config, db *gorm.DB, repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) ConnService {
	return &connService{cfg: cfg, db: db, repo: repo, jwtMgr: jwtMgr, logger: logger}
}

const dialTimeout = 3 * time.Second

func (s *connService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	dbCfg := s.mergeProfile(req)

	// 1. TCP 连通性探测，区分主机不可达与端口拒绝
	if err := probe(dbCfg.Addr()); err != nil {
		return nil, err
	}

	// 2. 建立连接并验证凭据
	db, err := database.NewDB(dbCfg, s.logger)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	// 3. 表结构检查；缺表时按需就地建表
	missing, err := database.MissingTables(db)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		if !req.CreateTables {
			return nil, &SchemaMissingError{Tables: missing}
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(sqlDB, s.logger); err != nil {
			return nil, err
		}
	}

	// 4. 连接生效：重绑 Repository，记录档案与历史
	s.rebind(db)
	s.cfg.DB = *dbCfg
	s.cfg.RememberDatabase(dbCfg.Name)
	if err := config.Save(s.cfg, ""); err != nil {
		s.logger.Warn("保存连接档案失败", zap.Error(err))
	}

	token, err := s.jwtMgr.GenerateSessionToken(dbCfg.Name, dbCfg.User)
	if err != nil {
		return nil, err
	}

	s.logger.Info("数据库登录成功",
		zap.String("host", dbCfg.Host),
		zap.String("database", dbCfg.Name),
	)

	return &dto.LoginResponse{
		Token:    token,
		Database: dbCfg.Name,
		User:     dbCfg.User,
	}, nil
}

// mergeProfile 请求留空的字段回落到保存的档案
func (s *connService) mergeProfile(req *dto.LoginRequest) *config.DBConfig {
	dbCfg := s.cfg.DB
	if req.Host != "" {
		dbCfg.Host = req.Host
	}
	if req.Port != 0 {
		dbCfg.Port = req.Port
	}
	if req.Database != "" {
		dbCfg.Name = req.Database
	}
	if req.User != "" {
		dbCfg.User = req.User
	}
	if req.Password != "" {
		dbCfg.Password = req.Password
	}
	dbCfg.RememberPassword = req.RememberPassword
	return &dbCfg
}

// rebind 将聚合内的各 Repository 切换到新连接
// 旧连接池先关闭，重复登录不留下空闲连接
func (s *connService) rebind(db *gorm.DB) {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				s.logger.Warn("关闭旧连接池失败", zap.Error(err))
			}
		}
	}
	s.db = db
	fresh := repository.NewRepository(db)
	s.repo.Station = fresh.Station
	s.repo.Ticket = fresh.Ticket
	s.repo.Collection = fresh.Collection
	s.ready.Store(true)
}

func (s *connService) Profile() *dto.ConnectionProfileResponse {
	return &dto.ConnectionProfileResponse{
		Host:             s.cfg.DB.Host,
		Port:             s.cfg.DB.Port,
		Database:         s.cfg.DB.Name,
		User:             s.cfg.DB.User,
		RememberPassword: s.cfg.DB.RememberPassword,
		RecentDatabases:  s.cfg.History.Databases,
	}
}

func (s *connService) Ready() bool {
	return s.ready.Load()
}

func (s *connService) Logout() {
	s.ready.Store(false)
}

// probe TCP 探测，按失败形态分类
func probe(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err == nil {
		conn.Close()
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrServerUnreachable
	}
	if strings.Contains(err.Error(), "connection refused") {
		return ErrPortClosed
	}
	if strings.Contains(err.Error(), "no such host") {
		return ErrServerUnreachable
	}
	return ErrServerUnreachable
}

// classifyOpenError 将驱动报错归类为可提示的子情形
func classifyOpenError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Access denied"):
		return ErrAuthFailed
	case strings.Contains(msg, "Unknown database"):
		return ErrDatabaseUnknown
	default:
		return err
	}
}
