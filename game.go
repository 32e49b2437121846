package numbergame

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame/qna"
	"github.com/yulrizka/numbergame/repo"
	"github.com/yulrizka/numbergame/ticket"
)

// Outcome of validating an answer
type Outcome int

// Outcome kind
const (
	Correct Outcome = iota
	Wrong
	Tampered
)

// Stats keys
const (
	StatsIssued           = "issued"
	StatsValidatePrefix   = "validate."
	StatsValidateCorrect  = StatsValidatePrefix + "correct"
	StatsValidateWrong    = StatsValidatePrefix + "wrong"
	StatsValidateTampered = StatsValidatePrefix + "tampered"
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Tampered:
		return "tampered"
	}
	return "unknown"
}

// Message is the text sent back to the player
func (o Outcome) Message() string {
	switch o {
	case Correct:
		return "Thats Great"
	case Wrong:
		return "Thats Wrong. Plese Try Again"
	default:
		return "Response is Tampered."
	}
}

// Status is the HTTP status code for the outcome
func (o Outcome) Status() int {
	if o == Correct {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

func (o Outcome) statsKey() string {
	return StatsValidatePrefix + o.String()
}

// Answer proposed by a player. Sum is kept as sent so that a malformed value
// counts as a wrong answer instead of a request error.
type Answer struct {
	ID   string
	Text string
	Sum  string
}

// Config of a Game
type Config struct {
	Generator *qna.Generator
	Tickets   ticket.Store
	// Stats is optional, nil keeps the counters in memory
	Stats repo.DB
	// ConsumeOnCorrect removes the ticket once it was answered correctly
	ConsumeOnCorrect bool
	// NewID generates correlation ids, defaults to random UUIDs
	NewID func() string
}

// Game issues questions and validates the answers sent back for them
type Game struct {
	gen     *qna.Generator
	tickets ticket.Store
	stats   repo.DB
	consume bool
	newID   func() string
}

// NewGame creates a game
func NewGame(cfg Config) (*Game, error) {
	if cfg.Generator == nil {
		return nil, errors.New("numbergame: generator is required")
	}
	if cfg.Tickets == nil {
		return nil, errors.New("numbergame: ticket store is required")
	}
	g := &Game{
		gen:     cfg.Generator,
		tickets: cfg.Tickets,
		stats:   cfg.Stats,
		consume: cfg.ConsumeOnCorrect,
		newID:   cfg.NewID,
	}
	if g.stats == nil {
		g.stats = new(repo.MemoryDB)
		if err := g.stats.Init(); err != nil {
			return nil, errors.Wrap(err, "numbergame: init stats")
		}
	}
	if g.newID == nil {
		g.newID = func() string { return uuid.New().String() }
	}

	return g, nil
}

// Stats returns the statistics database of the game
func (g *Game) Stats() repo.DB {
	return g.stats
}

// Issue creates a new question and remembers it until it is answered or the
// ticket expires
func (g *Game) Issue() (qna.Question, error) {
	start := time.Now()
	defer gameIssueTimer.UpdateSince(start)

	q := g.gen.Next(g.newID())
	t := ticket.Ticket{
		ID:       q.ID,
		Text:     q.Text,
		Sum:      q.Sum(),
		IssuedAt: start,
	}
	if err := g.tickets.Put(t); err != nil {
		return qna.Question{}, errors.Wrap(err, "storing ticket")
	}
	questionIssuedCount.Inc(1)
	ticketActive.Update(int64(g.tickets.Count()))
	g.incStats(StatsIssued)
	log.Debug("question issued", zap.String("id", q.ID), zap.String("text", q.Text))

	return q, nil
}

// Validate checks an answer against the ticket it claims to belong to.
// An error is only returned when the ticket store fails.
func (g *Game) Validate(a Answer) (Outcome, error) {
	defer gameValidateTimer.UpdateSince(time.Now())

	outcome, err := g.check(a)
	if err != nil {
		return outcome, err
	}
	outcomeCounter(outcome).Inc(1)
	ticketActive.Update(int64(g.tickets.Count()))
	g.incStats(outcome.statsKey())
	log.Debug("answer validated", zap.String("id", a.ID), zap.String("outcome", outcome.String()))

	return outcome, nil
}

func (g *Game) check(a Answer) (Outcome, error) {
	if a.ID == "" {
		log.Info("answer without game id")
		return Tampered, nil
	}

	t, err := g.tickets.Get(a.ID)
	if err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			log.Info("unknown game id", zap.String("id", a.ID))
			return Tampered, nil
		}
		return Tampered, errors.Wrap(err, "loading ticket")
	}

	if a.Text != t.Text {
		log.Info("question text modified", zap.String("id", a.ID), zap.String("text", a.Text))
		return Tampered, nil
	}
	numbers, err := qna.ParseNumbers(a.Text)
	if err != nil || qna.Sum(numbers) != t.Sum {
		log.Warn("issued question does not match its ticket", zap.String("id", a.ID))
		return Tampered, nil
	}

	sum, err := qna.ParseSum(a.Sum)
	if err != nil || sum != t.Sum {
		return Wrong, nil
	}

	if g.consume {
		if err := g.tickets.Delete(t.ID); err != nil {
			return Correct, errors.Wrap(err, "deleting ticket")
		}
	}
	return Correct, nil
}

// incStats failures are logged, they never fail a request
func (g *Game) incStats(key string) {
	if err := g.stats.IncStats(key); err != nil {
		statsErrorCount.Inc(1)
		log.Error("updating stats failed", zap.String("key", key), zap.Error(err))
	}
}
