// Package ticket keeps track of issued questions until they are answered or
// expire.
package ticket

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned for unknown or expired tickets
	ErrNotFound = errors.New("ticket: not found")

	// ErrDuplicate is returned when a live ticket already has the same id
	ErrDuplicate = errors.New("ticket: duplicate id")
)

// Ticket correlates a question with the answer sent back for it
type Ticket struct {
	ID       string
	Text     string
	Sum      int
	IssuedAt time.Time
}

// Store holds tickets
type Store interface {
	Put(t Ticket) error
	Get(id string) (Ticket, error)
	Delete(id string) error
	// Count of live tickets, may include expired ones not yet evicted
	Count() int
}
