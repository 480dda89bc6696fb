package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/mileage"
	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/repository"
)

// PriceFetcher 外部油价来源（不稳定）
type PriceFetcher interface {
	FetchStationPrice(ctx context.Context, stationID string) (float64, error)
}

// FuelPriceService 油价获取策略：当天已有则复用，否则抓取一次并保存，失败时回退到最近的历史油价。
// 查询过去的日期只读历史，不抓取也不写入。
type FuelPriceService struct {
	store   repository.Store
	fetcher PriceFetcher
	logger  *zap.Logger
	now     func() time.Time
}

// NewFuelPriceService 创建油价服务，fetcher 可为 nil（只用历史数据）
func NewFuelPriceService(store repository.Store, fetcher PriceFetcher, logger *zap.Logger) *FuelPriceService {
	return &FuelPriceService{store: store, fetcher: fetcher, logger: logger, now: time.Now}
}

// CurrentPrice 获取加油站在 asOf 当天的油价
func (s *FuelPriceService) CurrentPrice(ctx context.Context, stationID string, asOf time.Time) (*models.FuelPrice, error) {
	if stationID == "" {
		return nil, invalid("station is required")
	}

	wall := s.now()
	if mileage.Day(asOf).Before(mileage.Day(wall)) {
		return s.priceOn(ctx, stationID, asOf)
	}

	latest, err := s.store.LatestFuelPrice(ctx, stationID)
	if err != nil {
		latest = nil
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("Failed to load latest fuel price",
				zap.String("station_id", stationID), zap.Error(err))
		}
	}

	if latest != nil && mileage.Day(latest.RecordedAt).Equal(mileage.Day(wall)) {
		return latest, nil
	}

	if s.fetcher == nil {
		return fallback(latest)
	}

	price, err := s.fetcher.FetchStationPrice(ctx, stationID)
	if err != nil {
		s.logger.Warn("Failed to fetch fuel price, using last known sample",
			zap.String("station_id", stationID), zap.Error(err))
		return fallback(latest)
	}

	// timestamptz 只保存到微秒
	sample := &models.FuelPrice{
		StationID:  stationID,
		Price:      price,
		RecordedAt: wall.Truncate(time.Microsecond),
	}
	if err := s.store.CreateFuelPrice(ctx, sample); err != nil {
		s.logger.Warn("Failed to save fuel price",
			zap.String("station_id", stationID), zap.Error(err))
	}
	return sample, nil
}

// priceOn 返回 asOf 当天或之前最近的一条历史油价
func (s *FuelPriceService) priceOn(ctx context.Context, stationID string, asOf time.Time) (*models.FuelPrice, error) {
	samples, err := s.store.ListFuelPrices(ctx, stationID, time.Time{})
	if err != nil {
		s.logger.Debug("Failed to list fuel prices", zap.String("station_id", stationID), zap.Error(err))
		return nil, ErrNoPrice
	}
	samples = notAfter(samples, asOf)
	if len(samples) == 0 {
		return nil, ErrNoPrice
	}
	p := samples[len(samples)-1]
	return &p, nil
}

// History 获取 since 到 asOf 当天的油价，当天油价会先通过 CurrentPrice 补齐
func (s *FuelPriceService) History(ctx context.Context, stationID string, since, asOf time.Time) []models.FuelPrice {
	if stationID == "" {
		return nil
	}

	current, err := s.CurrentPrice(ctx, stationID, asOf)
	if err != nil {
		s.logger.Debug("No current fuel price", zap.String("station_id", stationID), zap.Error(err))
	}

	samples, err := s.store.ListFuelPrices(ctx, stationID, since)
	if err != nil {
		s.logger.Debug("Failed to list fuel prices", zap.String("station_id", stationID), zap.Error(err))
		samples = nil
	}
	samples = notAfter(samples, asOf)

	// 未能保存（或过期回退）的当前油价仍参与计算
	if current != nil && !containsSample(samples, current) {
		samples = append(samples, *current)
	}
	return samples
}

// notAfter 去掉 asOf 当天之后的样本，输入按时间升序
func notAfter(samples []models.FuelPrice, asOf time.Time) []models.FuelPrice {
	end := mileage.Day(asOf)
	out := samples[:0:0]
	for _, p := range samples {
		if !mileage.Day(p.RecordedAt).After(end) {
			out = append(out, p)
		}
	}
	return out
}

func containsSample(samples []models.FuelPrice, p *models.FuelPrice) bool {
	for _, s := range samples {
		if p.ID != 0 && s.ID != 0 {
			if s.ID == p.ID {
				return true
			}
			continue
		}
		if s.RecordedAt.Equal(p.RecordedAt) && s.Price == p.Price {
			return true
		}
	}
	return false
}

func fallback(latest *models.FuelPrice) (*models.FuelPrice, error) {
	if latest == nil {
		return nil, ErrNoPrice
	}
	return latest, nil
}
