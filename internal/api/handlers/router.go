package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/auth"
	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/service"
	"github.com/langchou/leasemeter/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	cfg      *config.Config
	logger   *zap.Logger
	lease    *service.LeaseService
	fuel     *service.FuelPriceService
	gate     *auth.Gate
	wsHub    *ws.Hub
	upgrader websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	lease *service.LeaseService,
	fuel *service.FuelPriceService,
	gate *auth.Gate,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger,
		lease:  lease,
		fuel:   fuel,
		gate:   gate,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 公开路由
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/session", h.GetSession)
	r.GET("/health", h.HealthCheck)

	// 需要登录的路由
	api := r.Group("/api", h.gate.Middleware())
	{
		// 仪表盘
		api.GET("/vehicles/:vehicle/dashboard", h.GetDashboard)

		// 读数
		api.GET("/vehicles/:vehicle/readings", h.ListReadings)
		api.POST("/vehicles/:vehicle/readings", h.CreateReading)
		api.DELETE("/vehicles/:vehicle/readings/:id", h.DeleteReading)

		// 出行
		api.GET("/vehicles/:vehicle/trips", h.ListTrips)
		api.POST("/vehicles/:vehicle/trips", h.CreateTrip)
		api.DELETE("/vehicles/:vehicle/trips/:id", h.DeleteTrip)

		// 车辆配置
		api.GET("/vehicles/:vehicle/settings", h.GetSettings)
		api.PUT("/vehicles/:vehicle/settings", h.SaveSettings)

		// 油价
		api.GET("/stations/:station/price", h.GetStationPrice)
	}

	// WebSocket（令牌通过 query 传递）
	r.GET("/ws", h.gate.Middleware(), h.HandleWebSocket)
}

// HandleWebSocket WebSocket 处理，?vehicle= 指定订阅的车辆
func (h *Handler) HandleWebSocket(c *gin.Context) {
	vehicleID := c.DefaultQuery("vehicle", h.cfg.DefaultVehicleID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn, vehicleID)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"store_configured": h.lease.StoreConfigured(),
		"ws_clients":       h.wsHub.ClientCount(),
		"alert_tiers":      h.lease.AlertTiers(),
	})
}
