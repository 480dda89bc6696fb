package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 日期格式
const DateLayout = "2006-01-02"

type Config struct {
	// Server
	ServerPort string
	Debug      bool

	// Database (为空时使用未配置的存储桩)
	DatabaseURL string

	// 默认车辆与租约（数据库中没有记录时使用）
	DefaultVehicleID       string
	DefaultLeaseStart      time.Time
	DefaultLeaseEnd        time.Time
	DefaultAnnualAllowance float64
	DefaultOverageRate     float64
	DefaultMPG             float64
	DefaultFuelStationID   string

	// 油价抓取
	FuelPriceURL      string // 含一个 %s 占位符（加油站 ID）
	FuelPricePattern  string // 第一个捕获组为价格
	FuelFetchInterval time.Duration

	// 访问密码
	DashboardPassword string
	JWTSecret         string
	SessionTTL        time.Duration
	// JWT_SECRET 未设置时随机生成，重启后旧令牌失效
	GeneratedJWTSecret bool

	// 超额提醒邮件
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AlertEmail   string
}

func Load() (*Config, error) {
	// 尝试加载 .env 文件（可选）
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:             getEnv("PORT", "4000"),
		Debug:                  getEnvBool("DEBUG", false),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DefaultVehicleID:       getEnv("DEFAULT_VEHICLE_ID", "default"),
		DefaultLeaseStart:      getEnvDate("DEFAULT_LEASE_START", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		DefaultLeaseEnd:        getEnvDate("DEFAULT_LEASE_END", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)),
		DefaultAnnualAllowance: getEnvFloat("DEFAULT_ANNUAL_ALLOWANCE", 12000),
		DefaultOverageRate:     getEnvFloat("DEFAULT_OVERAGE_RATE", 0.25),
		DefaultMPG:             getEnvFloat("DEFAULT_MPG", 30),
		DefaultFuelStationID:   getEnv("DEFAULT_FUEL_STATION_ID", ""),
		FuelPriceURL:           getEnv("FUEL_PRICE_URL", "https://www.gasbuddy.com/station/%s"),
		FuelPricePattern:       getEnv("FUEL_PRICE_PATTERN", `FuelTypePriceDisplay-module__price[^>]*>\s*\$?([0-9]+\.[0-9]{1,3})`),
		FuelFetchInterval:      getEnvDuration("FUEL_FETCH_INTERVAL", 10*time.Second),
		DashboardPassword:      getEnv("DASHBOARD_PASSWORD", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		SessionTTL:             getEnvDuration("SESSION_TTL", 12*time.Hour),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		AlertEmail:             getEnv("ALERT_EMAIL", ""),
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedJWTSecret = true
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		t, err := time.Parse(DateLayout, value)
		if err == nil {
			return t
		}
	}
	return defaultValue
}
