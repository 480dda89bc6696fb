package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/langchou/leasemeter/internal/models"
)

var tiers = []string{
	string(models.TierOnTrack),
	string(models.TierSlightlyOver),
	string(models.TierWarning),
	string(models.TierOverLimit),
}

// eventFor 进入某等级的事件名
func eventFor(tier models.AlertTier) string {
	return "enter_" + string(tier)
}

// TierState 车辆当前提醒等级
type TierState struct {
	VehicleID string           `json:"vehicle_id"`
	Tier      models.AlertTier `json:"tier"`
	Since     time.Time        `json:"since"`
}

// Change 一次等级变化
type Change struct {
	VehicleID string
	From      models.AlertTier
	To        models.AlertTier
}

// Machine 单辆车的提醒等级状态机，任意等级之间都可以直接转换
type Machine struct {
	mu        sync.RWMutex
	vehicleID string
	fsm       *fsm.FSM
	since     time.Time
	onChange  func(vehicleID string, from, to models.AlertTier)
}

// NewMachine 创建状态机
func NewMachine(vehicleID string, initial models.AlertTier, onChange func(vehicleID string, from, to models.AlertTier)) *Machine {
	if initial == "" {
		initial = models.TierOnTrack
	}

	m := &Machine{
		vehicleID: vehicleID,
		since:     time.Now(),
		onChange:  onChange,
	}

	events := make(fsm.Events, 0, len(tiers))
	for _, dst := range tiers {
		events = append(events, fsm.EventDesc{
			Name: eventFor(models.AlertTier(dst)),
			Src:  tiers,
			Dst:  dst,
		})
	}

	m.fsm = fsm.NewFSM(
		string(initial),
		events,
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(m.vehicleID, models.AlertTier(e.Src), models.AlertTier(e.Dst))
				}
			},
		},
	)

	return m
}

// Current 当前等级
func (m *Machine) Current() models.AlertTier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.AlertTier(m.fsm.Current())
}

// GetState 获取状态副本
func (m *Machine) GetState() TierState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return TierState{
		VehicleID: m.vehicleID,
		Tier:      models.AlertTier(m.fsm.Current()),
		Since:     m.since,
	}
}

// Transition 转到目标等级，等级未变化时不触发回调并返回 nil。
// 原等级在同一把锁内读取，并发调用时只有一个会看到变化
func (m *Machine) Transition(to models.AlertTier) (*Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := models.AlertTier(m.fsm.Current())
	if from == to {
		return nil, nil
	}

	if err := m.fsm.Event(context.Background(), eventFor(to)); err != nil {
		return nil, fmt.Errorf("trigger event %s: %w", eventFor(to), err)
	}

	m.since = time.Now()
	return &Change{VehicleID: m.vehicleID, From: from, To: to}, nil
}

// Manager 管理所有车辆的提醒等级
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange func(vehicleID string, from, to models.AlertTier)
}

// NewManager 创建管理器
func NewManager(onChange func(vehicleID string, from, to models.AlertTier)) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

// Observe 记录车辆最新等级，返回发生的变化：首次出现的车辆只建立基线，不触发回调
func (m *Manager) Observe(vehicleID string, tier models.AlertTier) (*Change, error) {
	m.mu.Lock()
	machine, ok := m.machines[vehicleID]
	if !ok {
		m.machines[vehicleID] = NewMachine(vehicleID, tier, m.onChange)
		m.mu.Unlock()
		return nil, nil
	}
	m.mu.Unlock()

	return machine.Transition(tier)
}

// Get 获取状态机
func (m *Manager) Get(vehicleID string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[vehicleID]
	return machine, ok
}

// GetAllStates 获取所有车辆等级
func (m *Manager) GetAllStates() map[string]TierState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make(map[string]TierState, len(m.machines))
	for id, machine := range m.machines {
		states[id] = machine.GetState()
	}
	return states
}
