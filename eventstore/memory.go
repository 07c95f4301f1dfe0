package eventstore

import (
	"context"
	"sync"

	"github.com/savishkar/mediakit/core"
	"github.com/savishkar/mediakit/rotation"
)

// Memory is an in-process Store.  Each event's read-modify-write runs behind
// its own mutex, so only one RecordUsage executes at a time per event.
type Memory struct {
	mu     sync.RWMutex
	events map[string]*rotation.Event
	locks  map[string]*sync.Mutex
	log    core.Logger
}

// NewMemory returns an empty in-memory store.  logger may be nil.
func NewMemory(logger core.Logger) *Memory {
	return &Memory{
		events: make(map[string]*rotation.Event),
		locks:  make(map[string]*sync.Mutex),
		log:    core.OrNop(logger),
	}
}

// Put inserts or replaces an event's rotation state.
func (m *Memory) Put(ev rotation.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := ev
	cp.Slots = append([]rotation.QRSlot(nil), ev.Slots...)
	m.events[ev.ID] = &cp
	if _, ok := m.locks[ev.ID]; !ok {
		m.locks[ev.ID] = &sync.Mutex{}
	}
}

// Get returns a copy of the stored event, for inspection.
func (m *Memory) Get(eventID string) (rotation.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[eventID]
	if !ok {
		return rotation.Event{}, false
	}
	cp := *ev
	cp.Slots = append([]rotation.QRSlot(nil), ev.Slots...)
	return cp, true
}

func (m *Memory) GetActive(ctx context.Context, eventID string) (rotation.ActiveQR, error) {
	if err := ctx.Err(); err != nil {
		return rotation.ActiveQR{}, err
	}
	m.mu.RLock()
	ev, ok := m.events[eventID]
	lock := m.locks[eventID]
	m.mu.RUnlock()
	if !ok {
		return rotation.ActiveQR{}, ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()
	active, err := rotation.ActiveSlot(ev)
	if err != nil {
		return fallback(m.log, eventID, ev, err)
	}
	return active, nil
}

func (m *Memory) RecordUsage(ctx context.Context, eventID string) (rotation.ActiveQR, error) {
	if err := ctx.Err(); err != nil {
		return rotation.ActiveQR{}, err
	}

	m.mu.RLock()
	ev, ok := m.events[eventID]
	lock := m.locks[eventID]
	m.mu.RUnlock()
	if !ok {
		return rotation.ActiveQR{}, ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	switched, err := rotation.RecordUsage(ev)
	if err != nil {
		return fallback(m.log, eventID, ev, err)
	}
	if switched {
		m.log.Info("rotation.switched", "event_id", eventID, "active_index", ev.ActiveIndex)
	}
	return rotation.ActiveSlot(ev)
}
