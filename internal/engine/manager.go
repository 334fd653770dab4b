package engine

import (
	"sync"
	"sync/atomic"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// Manager allows hot-swapping the loaded decision tables while
// evaluations are in flight. Readers always see a consistent Engine.
type Manager struct {
	currentEngine atomic.Pointer[Engine]
	mu            sync.Mutex
}

func NewManager(initialTables []core.DecisionTable) *Manager {
	m := &Manager{}
	m.currentEngine.Store(New(initialTables))
	return m
}

func (m *Manager) GetEngine() *Engine {
	return m.currentEngine.Load()
}

func (m *Manager) Update(newTables []core.DecisionTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentEngine.Store(New(newTables))
	return nil
}
