package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/api/handler"
	"github.com/Ta321487/TicketAssitant-sub000/internal/api/router"
	"github.com/Ta321487/TicketAssitant-sub000/internal/render"
	"github.com/Ta321487/TicketAssitant-sub000/internal/repository"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/database"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/jwt"
	applogger "github.com/Ta321487/TicketAssitant-sub000/pkg/logger"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 尝试用保存的档案连接数据库
	// 失败不中断启动：所有数据库能力在用户登录成功后经 Login 重绑生效
	var db *gorm.DB
	if cfg.DB.Host != "" && cfg.DB.Password != "" {
		db, err = database.NewDB(&cfg.DB, logger)
		if err != nil {
			logger.Warn("按保存档案连接数据库失败，等待用户登录", zap.Error(err))
			db = nil
		}
	}

	// 4. 连接 Redis（可选：失败时地理编码缓存降级为进程内缓存）
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，地理编码缓存降级为内存缓存", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, db, repo, jwtMgr, rdb, logger)
	renderer := render.NewRenderer(&cfg.Render, logger)
	h := handler.NewHandler(svc, renderer)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc, jwtMgr, logger)

	// 8. 启动 HTTP 服务器（仅监听回环地址，优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if db != nil {
		if closeDB, _ := db.DB(); closeDB != nil {
			closeDB.Close()
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
