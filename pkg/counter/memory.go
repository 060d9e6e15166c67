package counter

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.Mutex
	count int64
}

// NewMemory returns an empty in-memory counter.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Increment(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return m.count, nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count, nil
}

func (*Memory) Close() error {
	return nil
}
