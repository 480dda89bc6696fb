package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/api/fuelprice"
	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/repository"
	"github.com/langchou/leasemeter/internal/service"
	"github.com/langchou/leasemeter/internal/state"
)

var (
	flagVehicle string
	flagAsOf    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "leasemeter",
	Short:         "Lease mileage tracker",
	Long:          "Track odometer readings against a lease's annual mileage allowance.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

// Execute 命令入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagVehicle, "vehicle", "V", "", "Vehicle identifier (default DEFAULT_VEHICLE_ID)")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Compute as of this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log to stderr")
}

// app 命令共享的配置、存储与服务
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     repository.Store
	fuel      *service.FuelPriceService
	lease     *service.LeaseService
	vehicleID string
	now       time.Time
}

// openApp 按服务端相同的方式组装依赖
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	if flagVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	now := time.Now()
	if flagAsOf != "" {
		now, err = time.Parse(config.DateLayout, flagAsOf)
		if err != nil {
			return nil, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
	}

	fetcher, err := fuelprice.NewClient(cfg.FuelPriceURL, cfg.FuelPricePattern, cfg.FuelFetchInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("fuel price client: %w", err)
	}

	store := repository.Open(ctx, cfg.DatabaseURL, logger)
	fuel := service.NewFuelPriceService(store, fetcher, logger)
	dash := service.NewDashboardService(cfg, store, fuel, logger)
	lease := service.NewLeaseService(store, dash, state.NewManager(nil), nil, nil, logger)

	vehicleID := flagVehicle
	if vehicleID == "" {
		vehicleID = cfg.DefaultVehicleID
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		fuel:      fuel,
		lease:     lease,
		vehicleID: vehicleID,
		now:       now,
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func (a *app) session() service.Session {
	return service.Session{VehicleID: a.vehicleID, Now: a.now}
}

func warnIfUnconfigured(a *app) {
	if !a.store.Configured() {
		fmt.Fprintln(os.Stderr, "  DATABASE_URL not set or unreachable, showing empty data")
	}
}
