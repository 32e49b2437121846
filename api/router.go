// Package api exposes the game over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame"
)

// HeaderGameID carries the correlation id of a question
const HeaderGameID = "number-game-id"

var log = zap.New(zap.NewJSONEncoder())

// SetLogger replaces the logger used by the handlers
func SetLogger(l zap.Logger) {
	log = l
}

// Options of the router
type Options struct {
	// CORSOrigins allowed to call the API, empty disables CORS headers
	CORSOrigins []string
	// Timeout of a request, zero means 30 seconds
	Timeout time.Duration
}

// NewRouter mounts every endpoint of the game
func NewRouter(game *numbergame.Game, opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", HeaderGameID},
			ExposedHeaders:   []string{HeaderGameID, "Content-Length"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/question", QuestionHandler(game))
	r.Get("/validate", ValidateHandler(game))
	r.Post("/validate", ValidateHandler(game))
	r.Get("/stats", StatsHandler(game.Stats()))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	return r
}

// requestLogger writes one log line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		requestTimer.UpdateSince(start)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("duration", time.Since(start).String()),
			zap.String("requestID", middleware.GetReqID(r.Context())),
		)
	})
}
