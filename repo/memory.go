package repo

import (
	"sync"
	"time"

	"github.com/yulrizka/numbergame/model"
)

// MemoryDB stores data in non persistence way
type MemoryDB struct {
	mu    sync.Mutex
	stats model.Stats
}

func (m *MemoryDB) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		m.stats = make(model.Stats)
	}
	return nil
}

func (m *MemoryDB) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(model.Stats)
	return nil
}

func (m *MemoryDB) Close() error { return nil }

func (m *MemoryDB) IncStats(key string) error {
	defer dbIncStatsTimer.UpdateSince(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		m.stats = make(model.Stats)
	}
	m.stats[key]++
	return nil
}

func (m *MemoryDB) Stats(key string) (int64, error) {
	defer dbStatsTimer.UpdateSince(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[key], nil
}

func (m *MemoryDB) AllStats() (model.Stats, error) {
	defer dbAllStatsTimer.UpdateSince(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Stats{}.Add(m.stats), nil
}
