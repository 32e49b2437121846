package numbergame

import "github.com/rcrowley/go-metrics"

var (
	// game metrics
	gameIssueTimer    = metrics.NewRegisteredTimer("game.issue.ns", metrics.DefaultRegistry)
	gameValidateTimer = metrics.NewRegisteredTimer("game.validate.ns", metrics.DefaultRegistry)
	ticketActive      = metrics.NewRegisteredGauge("ticket.active", metrics.DefaultRegistry)

	questionIssuedCount = metrics.NewRegisteredCounter("question.issued.count", metrics.DefaultRegistry)
	answerCorrectCount  = metrics.NewRegisteredCounter("answer.correct.count", metrics.DefaultRegistry)
	answerWrongCount    = metrics.NewRegisteredCounter("answer.wrong.count", metrics.DefaultRegistry)
	answerTamperedCount = metrics.NewRegisteredCounter("answer.tampered.count", metrics.DefaultRegistry)
	statsErrorCount     = metrics.NewRegisteredCounter("stats.error.count", metrics.DefaultRegistry)
)

func outcomeCounter(o Outcome) metrics.Counter {
	switch o {
	case Correct:
		return answerCorrectCount
	case Wrong:
		return answerWrongCount
	default:
		return answerTamperedCount
	}
}
