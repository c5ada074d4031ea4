package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ta321487/TicketAssitant-sub000/config"
	"github.com/Ta321487/TicketAssitant-sub000/internal/api/handler"
	"github.com/Ta321487/TicketAssitant-sub000/internal/api/middleware"
	"github.com/Ta321487/TicketAssitant-sub000/internal/service"
	"github.com/Ta321487/TicketAssitant-sub000/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, svc *service.Service, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "db_ready": svc.Conn.Ready()})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 连接模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.GET("/profile", h.Auth.Profile)
		}

		// 业务路由：需要会话令牌且数据库已连接
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(jwtMgr))
		authorized.Use(middleware.RequireDB(svc.Conn.Ready))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 车站登记簿
			stations := authorized.Group("/stations")
			{
				stations.GET("", h.Station.ListStations)
				stations.GET("/search", h.Station.SearchStations)
				stations.POST("", h.Station.CreateStation)
				stations.POST("/reload", h.Station.ReloadStations)
				stations.GET("/:id", h.Station.GetStation)
				stations.PUT("/:id", h.Station.UpdateStation)
				stations.DELETE("/:id", h.Station.DeleteStation)
			}

			// 乘车记录
			tickets := authorized.Group("/tickets")
			{
				tickets.GET("", h.Ticket.ListTickets)
				tickets.POST("", h.Ticket.CreateTicket)
				tickets.POST("/bulk-delete", h.Ticket.BulkDeleteTickets)
				tickets.GET("/years", h.Ticket.ListYears)
				tickets.GET("/train-prefixes", h.Ticket.ListTrainPrefixes)
				tickets.GET("/depart-stations", h.Ticket.ListUsedDepartStations)
				tickets.GET("/export/xlsx", h.Ticket.ExportXLSX)

				// PDF 导入
				tickets.POST("/import/parse", h.Import.Parse)
				tickets.POST("/import/unlock", h.Import.Unlock)
				tickets.POST("/import/commit", h.Import.Commit)
				tickets.DELETE("/import/:session_id", h.Import.Cancel)

				// 预览/导出渲染
				tickets.POST("/render", h.Render.Export)

				tickets.GET("/:id", h.Ticket.GetTicket)
				tickets.PUT("/:id", h.Ticket.UpdateTicket)
				tickets.DELETE("/:id", h.Ticket.DeleteTicket)
				tickets.GET("/:id/export/ics", h.Ticket.ExportICS)
				tickets.GET("/:id/preview", h.Render.Preview)
			}

			// 收藏夹
			collections := authorized.Group("/collections")
			{
				collections.GET("", h.Collection.ListCollections)
				collections.POST("", h.Collection.CreateCollection)
				collections.POST("/bulk-delete", h.Collection.BulkDeleteCollections)
				collections.PUT("/reorder", h.Collection.ReorderCollections)
				collections.GET("/:id", h.Collection.GetCollection)
				collections.PUT("/:id", h.Collection.UpdateCollection)
				collections.DELETE("/:id", h.Collection.DeleteCollection)
				collections.GET("/:id/cover", h.Collection.GetCover)
				collections.GET("/:id/tickets", h.Collection.ListTickets)
				collections.POST("/:id/tickets", h.Collection.AddTickets)
				collections.DELETE("/:id/tickets", h.Collection.RemoveTickets)
			}

			// 地理编码
			authorized.GET("/geo/lookup", h.Geo.Lookup)
		}
	}

	return r
}
