package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/repository"
	"github.com/langchou/leasemeter/internal/state"
	"github.com/langchou/leasemeter/pkg/ws"
)

var testNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DefaultVehicleID:       "default",
		DefaultLeaseStart:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DefaultLeaseEnd:        time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		DefaultAnnualAllowance: 12000,
		DefaultOverageRate:     0.25,
		DefaultMPG:             30,
	}
}

func day(s string) time.Time {
	t, err := time.Parse(config.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(n int) *int { return &n }

// newFuelService 以 clock 为当前时间
func newFuelService(store repository.Store, fetcher PriceFetcher, clock *time.Time) *FuelPriceService {
	svc := NewFuelPriceService(store, fetcher, zap.NewNop())
	svc.now = func() time.Time { return *clock }
	return svc
}

func TestFuelPrice_ReusesSameDaySample(t *testing.T) {
	store := newMemStore()
	store.prices = []models.FuelPrice{{StationID: "s1", Price: 3.459, RecordedAt: testNow.Add(-6 * time.Hour)}}
	fetcher := &countingFetcher{price: 9.99}
	clock := testNow
	svc := newFuelService(store, fetcher, &clock)

	for i := 0; i < 3; i++ {
		p, err := svc.CurrentPrice(context.Background(), "s1", testNow)
		if err != nil {
			t.Fatalf("CurrentPrice: %v", err)
		}
		if p.Price != 3.459 {
			t.Fatalf("price = %v, want reused 3.459", p.Price)
		}
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher called %d times, want 0", fetcher.calls)
	}
}

func TestFuelPrice_FetchesOncePerDay(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{price: 3.299}
	clock := testNow
	svc := newFuelService(store, fetcher, &clock)
	ctx := context.Background()

	first, err := svc.CurrentPrice(ctx, "s1", clock)
	if err != nil || first.Price != 3.299 {
		t.Fatalf("first = %+v, %v", first, err)
	}
	if len(store.prices) != 1 {
		t.Fatalf("persisted %d samples, want 1", len(store.prices))
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := svc.CurrentPrice(ctx, "s1", clock); err != nil {
		t.Fatalf("second: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times on the same day, want 1", fetcher.calls)
	}

	clock = clock.AddDate(0, 0, 1)
	if _, err := svc.CurrentPrice(ctx, "s1", clock); err != nil {
		t.Fatalf("next day: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetcher called %d times after a new day, want 2", fetcher.calls)
	}
}

func TestFuelPrice_FallsBackToHistory(t *testing.T) {
	store := newMemStore()
	old := models.FuelPrice{StationID: "s1", Price: 3.10, RecordedAt: testNow.AddDate(0, 0, -3)}
	store.prices = []models.FuelPrice{old}
	fetcher := &countingFetcher{err: errors.New("page changed")}
	clock := testNow
	svc := newFuelService(store, fetcher, &clock)

	p, err := svc.CurrentPrice(context.Background(), "s1", testNow)
	if err != nil {
		t.Fatalf("CurrentPrice: %v", err)
	}
	if p.Price != 3.10 {
		t.Fatalf("price = %v, want stale 3.10", p.Price)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, want exactly 1 (no retry)", fetcher.calls)
	}
	if len(store.prices) != 1 {
		t.Fatal("failed fetch must not persist a sample")
	}
}

func TestFuelPrice_NoPrice(t *testing.T) {
	clock := testNow
	svc := newFuelService(newMemStore(), &countingFetcher{err: errors.New("timeout")}, &clock)
	if _, err := svc.CurrentPrice(context.Background(), "s1", testNow); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
	if _, err := svc.CurrentPrice(context.Background(), "", testNow); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty station err = %v, want ErrValidation", err)
	}
}

func TestFuelPrice_UnconfiguredStoreStillFetches(t *testing.T) {
	fetcher := &countingFetcher{price: 3.5}
	clock := testNow
	svc := newFuelService(repository.NewStubStore(), fetcher, &clock)

	p, err := svc.CurrentPrice(context.Background(), "s1", testNow)
	if err != nil || p.Price != 3.5 {
		t.Fatalf("CurrentPrice = %+v, %v", p, err)
	}
}

func TestFuelPrice_PastDateReadsHistoryOnly(t *testing.T) {
	store := newMemStore()
	store.prices = []models.FuelPrice{
		{ID: 1, StationID: "s1", Price: 3.10, RecordedAt: day("2024-05-20").Add(10 * time.Hour)},
		{ID: 2, StationID: "s1", Price: 3.25, RecordedAt: day("2024-05-28").Add(9 * time.Hour)},
		{ID: 3, StationID: "s1", Price: 3.40, RecordedAt: testNow.Add(-2 * time.Hour)},
	}
	fetcher := &countingFetcher{price: 9.99}
	clock := testNow
	svc := newFuelService(store, fetcher, &clock)
	ctx := context.Background()

	cases := []struct {
		asOf string
		want float64
	}{
		{"2024-05-30", 3.25},
		{"2024-05-28", 3.25},
		{"2024-05-21", 3.10},
	}
	for _, tc := range cases {
		p, err := svc.CurrentPrice(ctx, "s1", day(tc.asOf))
		if err != nil {
			t.Fatalf("CurrentPrice(%s): %v", tc.asOf, err)
		}
		if p.Price != tc.want {
			t.Fatalf("CurrentPrice(%s) = %v, want %v", tc.asOf, p.Price, tc.want)
		}
	}

	if _, err := svc.CurrentPrice(ctx, "s1", day("2024-05-01")); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("before any sample err = %v, want ErrNoPrice", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher called %d times for past dates, want 0", fetcher.calls)
	}
	if len(store.prices) != 3 {
		t.Fatalf("past lookups wrote samples: %d rows", len(store.prices))
	}
}

func TestFuelPrice_PastDateWithoutHistory(t *testing.T) {
	store := newMemStore()
	fetcher := &countingFetcher{price: 3.99}
	clock := testNow
	svc := newFuelService(store, fetcher, &clock)

	if _, err := svc.CurrentPrice(context.Background(), "s1", testNow.AddDate(0, 0, -10)); !errors.Is(err, ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
	if fetcher.calls != 0 || len(store.prices) != 0 {
		t.Fatalf("fetch calls %d, rows %d, want none", fetcher.calls, len(store.prices))
	}
}

// truncatingStore 像 timestamptz 一样只保存到微秒
type truncatingStore struct {
	*memStore
}

func (s truncatingStore) CreateFuelPrice(ctx context.Context, p *models.FuelPrice) error {
	row := *p
	row.RecordedAt = row.RecordedAt.Truncate(time.Microsecond)
	if err := s.memStore.CreateFuelPrice(ctx, &row); err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func TestDashboard_FreshSampleCountedOnce(t *testing.T) {
	mem := newMemStore()
	mem.configs["car"] = models.VehicleConfig{
		VehicleID:            "car",
		LeaseStart:           day("2024-01-01"),
		LeaseEnd:             day("2027-01-01"),
		AnnualAllowanceMiles: 12000,
		MPG:                  25,
		FuelStationID:        "s1",
	}
	mem.prices = []models.FuelPrice{{ID: 100, StationID: "s1", Price: 3.00, RecordedAt: testNow.AddDate(0, 0, -1)}}
	store := truncatingStore{mem}

	clock := testNow.Add(123 * time.Nanosecond)
	fetcher := &countingFetcher{price: 4.00}
	svc := NewDashboardService(testConfig(), store, newFuelService(store, fetcher, &clock), zap.NewNop())

	d := svc.Load(context.Background(), Session{VehicleID: "car", Now: clock})
	if fetcher.calls != 1 || len(mem.prices) != 2 {
		t.Fatalf("fetch calls %d, rows %d", fetcher.calls, len(mem.prices))
	}
	w7, ok := d.Fuel.Window(7)
	if !ok {
		t.Fatal("missing 7-day fuel window")
	}
	if math.Abs(w7.AveragePrice-3.50) > 1e-9 {
		t.Fatalf("7-day average = %v, want 3.50 (fresh sample counted once)", w7.AveragePrice)
	}
}

func TestDashboard_PastSessionDoesNotFetch(t *testing.T) {
	store := newMemStore()
	store.configs["car"] = models.VehicleConfig{
		VehicleID:            "car",
		LeaseStart:           day("2024-01-01"),
		LeaseEnd:             day("2027-01-01"),
		AnnualAllowanceMiles: 12000,
		MPG:                  25,
		FuelStationID:        "s1",
	}
	store.prices = []models.FuelPrice{
		{ID: 1, StationID: "s1", Price: 3.25, RecordedAt: day("2024-05-28").Add(9 * time.Hour)},
		{ID: 2, StationID: "s1", Price: 3.40, RecordedAt: testNow.Add(-2 * time.Hour)},
	}
	fetcher := &countingFetcher{price: 9.99}
	clock := testNow
	svc := NewDashboardService(testConfig(), store, newFuelService(store, fetcher, &clock), zap.NewNop())

	d := svc.Load(context.Background(), Session{VehicleID: "car", Now: day("2024-05-30")})
	if fetcher.calls != 0 || len(store.prices) != 2 {
		t.Fatalf("fetch calls %d, rows %d, want 0 and 2", fetcher.calls, len(store.prices))
	}
	if d.Fuel.LatestPrice != 3.25 {
		t.Fatalf("latest price = %v, want 3.25 as of 2024-05-30", d.Fuel.LatestPrice)
	}
}

func TestDashboard_UnconfiguredStoreRendersZeroes(t *testing.T) {
	svc := NewDashboardService(testConfig(), repository.NewStubStore(), nil, zap.NewNop())

	d := svc.Load(context.Background(), Session{Now: testNow})
	if d.VehicleID != "default" {
		t.Fatalf("VehicleID = %q, want default", d.VehicleID)
	}
	if d.StoreConfigured {
		t.Fatal("StoreConfigured should be false")
	}
	if !d.Config.IsDefault {
		t.Fatal("config should come from defaults")
	}
	if len(d.Readings) != 0 || d.Readings == nil {
		t.Fatalf("Readings = %v, want empty non-nil", d.Readings)
	}
	if d.Pace != nil {
		t.Fatalf("Pace = %+v, want nil", d.Pace)
	}
	if d.Allowance.TotalMilesDriven != 0 || d.Allowance.AlertTier != models.TierOnTrack {
		t.Fatalf("Allowance = %+v", d.Allowance)
	}
	for _, w := range d.Fuel.Windows {
		if w.Spent != 0 || w.Forecast != 0 {
			t.Fatalf("fuel window %+v, want zero", w)
		}
	}
}

func TestDashboard_FetchErrorsGiveEmptyCollections(t *testing.T) {
	store := newMemStore()
	store.failList = true
	svc := NewDashboardService(testConfig(), store, nil, zap.NewNop())

	d := svc.Load(context.Background(), Session{VehicleID: "car", Now: testNow})
	if len(d.Readings) != 0 || len(d.Trips) != 0 {
		t.Fatalf("expected empty collections, got %d readings %d trips", len(d.Readings), len(d.Trips))
	}
}

func TestDashboard_ComputesFromStoredData(t *testing.T) {
	store := newMemStore()
	rate := 0.2
	store.configs["car"] = models.VehicleConfig{
		VehicleID:            "car",
		LeaseStart:           day("2024-01-01"),
		LeaseEnd:             day("2027-01-01"),
		AnnualAllowanceMiles: 12000,
		MPG:                  25,
		OverageRatePerMile:   &rate,
		FuelStationID:        "s1",
	}
	store.readings = []models.Reading{
		{VehicleID: "car", Date: day("2024-01-01"), Miles: 0},
		{VehicleID: "car", Date: day("2024-05-02"), Miles: 3000},
		{VehicleID: "car", Date: day("2024-06-01"), Miles: 3900},
		{VehicleID: "other", Date: day("2024-06-01"), Miles: 99999},
	}
	store.trips = []models.Trip{
		{VehicleID: "car", Name: "Coast", StartDate: day("2024-07-01"), EndDate: day("2024-07-04"), EstimatedMiles: 600},
		{VehicleID: "car", Name: "Past", StartDate: day("2024-03-01"), EndDate: day("2024-03-02"), EstimatedMiles: 200},
	}
	fetcher := &countingFetcher{price: 3.333}
	clock := testNow
	fuel := newFuelService(store, fetcher, &clock)
	svc := NewDashboardService(testConfig(), store, fuel, zap.NewNop())

	d := svc.Load(context.Background(), Session{VehicleID: "car", Now: testNow})

	if d.Config.IsDefault || d.Config.MPG != 25 {
		t.Fatalf("Config = %+v, want stored", d.Config)
	}
	if d.Allowance.TotalMilesDriven != 3900 {
		t.Fatalf("TotalMilesDriven = %d, want 3900", d.Allowance.TotalMilesDriven)
	}
	if d.Allowance.DaysIntoLease != 152 {
		t.Fatalf("DaysIntoLease = %d, want 152", d.Allowance.DaysIntoLease)
	}
	if d.Pace == nil || math.Abs(d.Pace.ThirtyDay-30) > 1e-9 {
		t.Fatalf("Pace = %+v, want thirty-day 30", d.Pace)
	}
	if d.TripImpact.UpcomingTrips != 1 || d.TripImpact.TripMiles != 600 {
		t.Fatalf("TripImpact = %+v", d.TripImpact)
	}
	if len(d.Horizons) != 4 || len(d.Projection.Weeks) != 4 {
		t.Fatalf("horizons %d, projection weeks %d", len(d.Horizons), len(d.Projection.Weeks))
	}
	if fetcher.calls != 1 || d.Fuel.LatestPrice != 3.333 {
		t.Fatalf("fetch calls %d, latest price %v", fetcher.calls, d.Fuel.LatestPrice)
	}

	w30, ok := d.Fuel.Window(30)
	if !ok {
		t.Fatal("missing 30-day fuel window")
	}
	// 900 英里 / 25 mpg * 3.333 = 119.988
	if w30.Spent != 119.99 {
		t.Fatalf("30-day spent = %v, want 119.99", w30.Spent)
	}
	if d.Outlook.ProjectedOverageCost == nil {
		t.Fatal("overage cost should be set when a rate is configured")
	}
}

func newLeaseService(store repository.Store) (*LeaseService, *recordingHub, *recordingNotifier) {
	hub := &recordingHub{}
	notifier := &recordingNotifier{}
	dash := NewDashboardService(testConfig(), store, nil, zap.NewNop())
	svc := NewLeaseService(store, dash, state.NewManager(nil), hub, notifier, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, hub, notifier
}

func TestLeaseService_AddReadingValidation(t *testing.T) {
	store := newMemStore()
	svc, hub, _ := newLeaseService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		in   ReadingInput
	}{
		{"missing date", ReadingInput{Miles: intPtr(100)}},
		{"bad date", ReadingInput{Date: "06/01/2024", Miles: intPtr(100)}},
		{"missing miles", ReadingInput{Date: "2024-06-01"}},
		{"negative miles", ReadingInput{Date: "2024-06-01", Miles: intPtr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddReading(ctx, "car", tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	if len(store.readings) != 0 {
		t.Fatal("invalid input must not be written")
	}
	if len(hub.types()) != 0 {
		t.Fatal("invalid input must not broadcast")
	}
}

func TestLeaseService_AddReadingBroadcastsAndEscalates(t *testing.T) {
	store := newMemStore()
	store.readings = []models.Reading{
		{VehicleID: "car", Date: day("2024-01-01"), Miles: 0},
		{VehicleID: "car", Date: day("2024-05-01"), Miles: 4000},
	}
	svc, hub, notifier := newLeaseService(store)
	ctx := context.Background()

	if d := svc.Dashboard(ctx, Session{VehicleID: "car"}); d.Allowance.AlertTier != models.TierOnTrack {
		t.Fatalf("baseline tier = %s, want on-track", d.Allowance.AlertTier)
	}

	note := "  road trip  "
	r, err := svc.AddReading(ctx, "car", ReadingInput{Date: "2024-06-01", Miles: intPtr(6000), Note: &note})
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if r.ID == 0 || r.Note == nil || *r.Note != "road trip" {
		t.Fatalf("reading = %+v", r)
	}

	got := hub.types()
	want := []string{ws.MsgTypeAlertTierChange, ws.MsgTypeDashboardUpdate}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("broadcasts = %v, want %v", got, want)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].To != models.TierOverLimit {
		t.Fatalf("alerts = %+v, want one over-limit alert", notifier.alerts)
	}

	// 回落不发邮件
	if err := svc.DeleteReading(ctx, "car", r.ID); err != nil {
		t.Fatalf("DeleteReading: %v", err)
	}
	if len(notifier.alerts) != 1 {
		t.Fatalf("de-escalation sent mail: %+v", notifier.alerts)
	}
	if m, _ := svc.tracker.Get("car"); m.Current() != models.TierOnTrack {
		t.Fatalf("tier after delete = %s", m.Current())
	}
}

func TestLeaseService_ConcurrentEscalationMailsOnce(t *testing.T) {
	svc, hub, notifier := newLeaseService(newMemStore())

	var d Dashboard
	d.VehicleID = "car"
	d.Allowance.AlertTier = models.TierOnTrack
	svc.observe(d)

	d.Allowance.AlertTier = models.TierOverLimit
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.observe(d)
		}()
	}
	wg.Wait()

	if len(notifier.alerts) != 1 || notifier.alerts[0].From != models.TierOnTrack {
		t.Fatalf("alerts = %+v, want one on-track to over-limit", notifier.alerts)
	}
	if got := hub.types(); len(got) != 1 || got[0] != ws.MsgTypeAlertTierChange {
		t.Fatalf("broadcasts = %v, want one tier change", got)
	}
}

func TestLeaseService_Trips(t *testing.T) {
	store := newMemStore()
	svc, _, _ := newLeaseService(store)
	ctx := context.Background()

	_, err := svc.AddTrip(ctx, "car", TripInput{Name: "x", StartDate: "2024-07-05", EndDate: "2024-07-01", EstimatedMiles: intPtr(10)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("reversed dates err = %v", err)
	}
	_, err = svc.AddTrip(ctx, "car", TripInput{StartDate: "2024-07-01", EndDate: "2024-07-01", EstimatedMiles: intPtr(10)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing name err = %v", err)
	}

	trip, err := svc.AddTrip(ctx, "car", TripInput{Name: "Lake", StartDate: "2024-07-01", EndDate: "2024-07-01", EstimatedMiles: intPtr(150)})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}
	trips, _ := svc.ListTrips(ctx, "car")
	if len(trips) != 1 || trips[0].Name != "Lake" {
		t.Fatalf("trips = %+v", trips)
	}

	if err := svc.DeleteTrip(ctx, "car", trip.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if err := svc.DeleteTrip(ctx, "car", trip.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestLeaseService_DeleteIsScopedToVehicle(t *testing.T) {
	store := newMemStore()
	svc, hub, _ := newLeaseService(store)
	ctx := context.Background()

	r, err := svc.AddReading(ctx, "car-a", ReadingInput{Date: "2024-06-01", Miles: intPtr(100)})
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	trip, err := svc.AddTrip(ctx, "car-a", TripInput{Name: "Lake", StartDate: "2024-07-01", EndDate: "2024-07-01", EstimatedMiles: intPtr(50)})
	if err != nil {
		t.Fatalf("AddTrip: %v", err)
	}
	before := len(hub.types())

	if err := svc.DeleteReading(ctx, "car-b", r.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("cross-vehicle reading delete err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteTrip(ctx, "car-b", trip.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("cross-vehicle trip delete err = %v, want ErrNotFound", err)
	}

	readings, _ := svc.ListReadings(ctx, "car-a")
	trips, _ := svc.ListTrips(ctx, "car-a")
	if len(readings) != 1 || len(trips) != 1 {
		t.Fatalf("car-a lost rows: %d readings, %d trips", len(readings), len(trips))
	}
	if len(hub.types()) != before {
		t.Fatal("rejected delete must not broadcast")
	}
}

func TestLeaseService_Settings(t *testing.T) {
	store := newMemStore()
	svc, _, _ := newLeaseService(store)
	ctx := context.Background()

	if cfg := svc.Settings(ctx, "car"); !cfg.IsDefault || cfg.AnnualAllowanceMiles != 12000 {
		t.Fatalf("default settings = %+v", cfg)
	}

	bad := []SettingsInput{
		{LeaseStart: "2024-01-01", LeaseEnd: "2027-01-01", AnnualAllowanceMiles: 0},
		{LeaseStart: "2024-01-01", LeaseEnd: "2023-01-01", AnnualAllowanceMiles: 10000},
		{LeaseStart: "", LeaseEnd: "2027-01-01", AnnualAllowanceMiles: 10000},
	}
	for i, in := range bad {
		if _, err := svc.SaveSettings(ctx, "car", in); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d err = %v, want ErrValidation", i, err)
		}
	}

	_, err := svc.SaveSettings(ctx, "car", SettingsInput{
		LeaseStart:           "2024-03-01",
		LeaseEnd:             "2027-03-01",
		AnnualAllowanceMiles: 10000,
		MPG:                  40,
		FuelStationID:        " 1234 ",
	})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	cfg := svc.Settings(ctx, "car")
	if cfg.IsDefault || cfg.AnnualAllowanceMiles != 10000 || cfg.FuelStationID != "1234" {
		t.Fatalf("saved settings = %+v", cfg)
	}
}

func TestLeaseService_UnconfiguredStoreWrites(t *testing.T) {
	svc, _, _ := newLeaseService(repository.NewStubStore())
	_, err := svc.AddReading(context.Background(), "car", ReadingInput{Date: "2024-06-01", Miles: intPtr(10)})
	if !errors.Is(err, repository.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
