package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rcrowley/go-metrics"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/model"
	"github.com/yulrizka/numbergame/repo"
)

var (
	requestTimer       = metrics.NewRegisteredTimer("http.request.ns", metrics.DefaultRegistry)
	internalErrorCount = metrics.NewRegisteredCounter("http.internalError.count", metrics.DefaultRegistry)
)

// GET /question
func QuestionHandler(game *numbergame.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := game.Issue()
		if err != nil {
			internalError(w, "issue question failed", err)
			return
		}
		w.Header().Set(HeaderGameID, q.ID)
		writeText(w, http.StatusOK, q.Text)
	}
}

// GET|POST /validate?inputQuestion=...&sum=...
func ValidateHandler(game *numbergame.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := numbergame.Answer{
			ID:   r.Header.Get(HeaderGameID),
			Text: r.FormValue("inputQuestion"),
			Sum:  r.FormValue("sum"),
		}
		outcome, err := game.Validate(a)
		if err != nil {
			internalError(w, "validate answer failed", err)
			return
		}
		writeText(w, outcome.Status(), outcome.Message())
	}
}

// GET /stats
func StatsHandler(db repo.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := db.AllStats()
		if err != nil {
			internalError(w, "loading stats failed", err)
			return
		}
		if stats == nil {
			stats = model.Stats{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func internalError(w http.ResponseWriter, msg string, err error) {
	internalErrorCount.Inc(1)
	log.Error(msg, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
