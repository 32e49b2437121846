package qna

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MaxNumber is the largest number a question may hold, the sum of three of
// them still fits an int on every platform
const MaxNumber = math.MaxInt32 / 3

// Generator creates questions with random numbers in [Min, Max]
type Generator struct {
	Labels Labels
	Min    int
	Max    int

	mu sync.Mutex
	r  *rand.Rand
}

// NewGenerator creates a generator. A zero seed uses the current time, any
// other seed makes the sequence of questions reproducible.
func NewGenerator(labels Labels, min, max int, seed int64) (*Generator, error) {
	if min < 0 || max < min || max > MaxNumber {
		return nil, errors.Errorf("qna: invalid number range [%d, %d]", min, max)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		Labels: labels,
		Min:    min,
		Max:    max,
		r:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Next generates a new question tagged with id
func (g *Generator) Next(id string) Question {
	var n [3]int

	g.mu.Lock()
	for i := range n {
		n[i] = g.Min + g.r.Intn(g.Max-g.Min+1)
	}
	g.mu.Unlock()

	return Question{
		ID:      id,
		Numbers: n,
		Text:    Format(g.Labels, n),
	}
}
