package ticket

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// DefaultTTL is how long an unanswered ticket stays valid
const DefaultTTL = 5 * time.Minute

// Memory stores tickets in process with an expiry
type Memory struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewMemory creates a store where tickets expire after ttl
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		c:   cache.New(ttl, 2*ttl),
		ttl: ttl,
	}
}

// TTL of the tickets
func (m *Memory) TTL() time.Duration { return m.ttl }

// Put see Store
func (m *Memory) Put(t Ticket) error {
	if err := m.c.Add(t.ID, t, cache.DefaultExpiration); err != nil {
		return ErrDuplicate
	}
	return nil
}

// Get see Store
func (m *Memory) Get(id string) (Ticket, error) {
	v, ok := m.c.Get(id)
	if !ok {
		return Ticket{}, ErrNotFound
	}
	t, ok := v.(Ticket)
	if !ok {
		return Ticket{}, errors.Errorf("ticket: unexpected value %T for %q", v, id)
	}

	return t, nil
}

// Delete see Store
func (m *Memory) Delete(id string) error {
	m.c.Delete(id)
	return nil
}

// Count see Store
func (m *Memory) Count() int {
	return m.c.ItemCount()
}
