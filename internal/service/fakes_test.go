package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/langchou/leasemeter/internal/models"
	"github.com/langchou/leasemeter/internal/notify"
	"github.com/langchou/leasemeter/internal/repository"
)

// memStore 内存存储
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	readings []models.Reading
	trips    []models.Trip
	configs  map[string]models.VehicleConfig
	prices   []models.FuelPrice
	failList bool
}

func newMemStore() *memStore {
	return &memStore{configs: make(map[string]models.VehicleConfig)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListReadings(_ context.Context, vehicleID string) ([]models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errors.New("connection reset")
	}
	var out []models.Reading
	for _, r := range m.readings {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) CreateReading(_ context.Context, r *models.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	m.readings = append(m.readings, *r)
	return nil
}

func (m *memStore) DeleteReading(_ context.Context, vehicleID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.readings {
		if r.ID == id && r.VehicleID == vehicleID {
			m.readings = append(m.readings[:i], m.readings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ListTrips(_ context.Context, vehicleID string) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errors.New("connection reset")
	}
	var out []models.Trip
	for _, t := range m.trips {
		if t.VehicleID == vehicleID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) CreateTrip(_ context.Context, t *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	m.trips = append(m.trips, *t)
	return nil
}

func (m *memStore) DeleteTrip(_ context.Context, vehicleID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.trips {
		if t.ID == id && t.VehicleID == vehicleID {
			m.trips = append(m.trips[:i], m.trips[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) GetVehicleConfig(_ context.Context, vehicleID string) (*models.VehicleConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[vehicleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cfg, nil
}

func (m *memStore) UpsertVehicleConfig(_ context.Context, cfg *models.VehicleConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.VehicleID] = *cfg
	return nil
}

func (m *memStore) ListFuelPrices(_ context.Context, stationID string, since time.Time) ([]models.FuelPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FuelPrice
	for _, p := range m.prices {
		if p.StationID == stationID && !p.RecordedAt.Before(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (m *memStore) LatestFuelPrice(_ context.Context, stationID string) (*models.FuelPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.FuelPrice
	for i := range m.prices {
		p := m.prices[i]
		if p.StationID == stationID && (latest == nil || p.RecordedAt.After(latest.RecordedAt)) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (m *memStore) CreateFuelPrice(_ context.Context, p *models.FuelPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	m.prices = append(m.prices, *p)
	return nil
}

func (m *memStore) Configured() bool { return true }

func (m *memStore) Close() {}

var _ repository.Store = (*memStore)(nil)

// countingFetcher 记录抓取次数
type countingFetcher struct {
	price float64
	err   error
	calls int
}

func (f *countingFetcher) FetchStationPrice(context.Context, string) (float64, error) {
	f.calls++
	return f.price, f.err
}

type broadcast struct {
	vehicleID string
	msgType   string
	data      interface{}
}

type recordingHub struct {
	mu   sync.Mutex
	msgs []broadcast
}

func (h *recordingHub) BroadcastToVehicle(vehicleID, msgType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, broadcast{vehicleID, msgType, data})
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.msgs))
	for i, m := range h.msgs {
		out[i] = m.msgType
	}
	return out
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []notify.TierAlert
}

func (n *recordingNotifier) SendTierAlert(a notify.TierAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return nil
}
