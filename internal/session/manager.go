package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Manager keeps one Controller per visitor in memory. Sessions idle for
// longer than the timeout are dropped by Sweep.
type Manager struct {
	newController func() *Controller
	idle          time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(newController func() *Controller, idle time.Duration) *Manager {
	return &Manager{
		newController: newController,
		idle:          idle,
		now:           time.Now,
		sessions:      map[string]*entry{},
	}
}

// Get returns the controller for id, creating a session under a new id
// when id is unknown. The returned id is the one to hand back to the
// client.
func (m *Manager) Get(id string) (string, *Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.lastSeen = m.now()
		return id, e.ctrl
	}
	id = uuid.NewString()
	e := &entry{ctrl: m.newController(), lastSeen: m.now()}
	m.sessions[id] = e
	return id, e.ctrl
}

// End drops a session.
func (m *Manager) End(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.idle)
	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
