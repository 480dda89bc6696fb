package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/leasemeter/internal/api/fuelprice"
	"github.com/langchou/leasemeter/internal/api/handlers"
	"github.com/langchou/leasemeter/internal/auth"
	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/notify"
	"github.com/langchou/leasemeter/internal/repository"
	"github.com/langchou/leasemeter/internal/service"
	"github.com/langchou/leasemeter/internal/state"
	"github.com/langchou/leasemeter/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting leasemeter", zap.String("port", cfg.ServerPort))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 打开存储（未配置或不可用时使用桩）
	store := repository.Open(ctx, cfg.DatabaseURL, logger)
	defer store.Close()

	// 油价抓取
	fetcher, err := fuelprice.NewClient(cfg.FuelPriceURL, cfg.FuelPricePattern, cfg.FuelFetchInterval, logger)
	if err != nil {
		logger.Fatal("Failed to create fuel price client", zap.Error(err))
	}

	// 访问密码
	gate, err := auth.NewGate(cfg.DashboardPassword, cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("Failed to init auth gate", zap.Error(err))
	}
	if gate.Enabled() && cfg.GeneratedJWTSecret {
		logger.Warn("JWT_SECRET not set, using a random secret; sessions end on restart")
	}
	if !gate.Enabled() {
		logger.Warn("DASHBOARD_PASSWORD not set, API is open")
	}

	// 超额提醒邮件
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.AlertEmail, logger)

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// 提醒等级跟踪
	tracker := state.NewManager(func(vehicleID string, from, to models.AlertTier) {
		logger.Info("Alert tier changed",
			zap.String("vehicle_id", vehicleID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
	})

	// 创建服务
	fuelService := service.NewFuelPriceService(store, fetcher, logger)
	dashboardService := service.NewDashboardService(cfg, store, fuelService, logger)
	leaseService := service.NewLeaseService(store, dashboardService, tracker, wsHub, mailer, logger)

	// 新连接推送当前仪表盘
	wsHub.SetInitDataProvider(func(vehicleID string) interface{} {
		return leaseService.Dashboard(ctx, service.Session{VehicleID: vehicleID})
	})

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(cfg, logger, leaseService, fuelService, gate, wsHub)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLogger(logger))
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", server.Addr),
		zap.Bool("store_configured", store.Configured()),
		zap.Bool("mail_enabled", mailer.Enabled()))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
