package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame"
	"github.com/yulrizka/numbergame/api"
	"github.com/yulrizka/numbergame/config"
	"github.com/yulrizka/numbergame/qna"
	"github.com/yulrizka/numbergame/repo"
	"github.com/yulrizka/numbergame/ticket"
)

var shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "listen address (HTTP_ADDR)")
	f.String("stats-driver", "", "stats storage: "+strings.Join(repo.Drivers, ", ")+" (STATS_DRIVER)")
	f.String("stats-dsn", "", "stats data source: redis address, bolt file or SQL DSN (STATS_DSN)")
	f.Duration("ticket-ttl", 0, "how long a question can be answered (TICKET_TTL)")
	f.String("graphite", "", "graphite address, empty to disable (GRAPHITE_ADDR)")
	f.String("graphite-web", "", "graphite web url for events, empty to disable (GRAPHITE_WEB_URL)")
}

// loadConfig reads the environment and applies the flags that were set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.HTTPAddr, _ = f.GetString("addr")
	}
	if f.Changed("stats-driver") {
		cfg.StatsDriver, _ = f.GetString("stats-driver")
	}
	if f.Changed("stats-dsn") {
		cfg.StatsDSN, _ = f.GetString("stats-dsn")
	}
	if f.Changed("ticket-ttl") {
		cfg.TicketTTL, _ = f.GetDuration("ticket-ttl")
	}
	if f.Changed("graphite") {
		cfg.GraphiteAddr, _ = f.GetString("graphite")
	}
	if f.Changed("graphite-web") {
		cfg.GraphiteWebURL, _ = f.GetString("graphite-web")
	}

	return cfg, cfg.Validate()
}

func openStats(cfg config.Config) (repo.DB, error) {
	return repo.Open(cfg.StatsDriver, cfg.StatsDSN, repo.WithRedisPrefix(cfg.RedisPrefix))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	graphiteWebURL = cfg.GraphiteWebURL

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("numbergame STARTED", zap.String("version", VERSION), zap.String("buildtime", BUILDTIME))
	log.Info("Params",
		zap.String("mode", string(cfg.Mode)),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("statsDriver", cfg.StatsDriver),
		zap.String("ticketTTL", cfg.TicketTTL.String()),
		zap.Int("min", cfg.NumberMin),
		zap.Int("max", cfg.NumberMax),
	)

	stats, err := openStats(cfg)
	if err != nil {
		return err
	}
	defer stats.Close()

	gen, err := qna.NewGenerator(cfg.Labels(), cfg.NumberMin, cfg.NumberMax, cfg.RandomSeed)
	if err != nil {
		return err
	}
	game, err := numbergame.NewGame(numbergame.Config{
		Generator:        gen,
		Tickets:          ticket.NewMemory(cfg.TicketTTL),
		Stats:            stats,
		ConsumeOnCorrect: cfg.ConsumeOnCorrect,
	})
	if err != nil {
		return err
	}

	initMetrics(ctx, cfg.GraphiteAddr, stats)
	if err := postEvent("numbergame startup", "startup", fmt.Sprintf("startup version:%s buildtime:%s", VERSION, BUILDTIME)); err != nil {
		log.Error("post event failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(game, api.Options{CORSOrigins: cfg.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("http listener", zap.String("addr", cfg.HTTPAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http listener")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	if err := postEvent("numbergame shutdown", "shutdown", fmt.Sprintf("shutdown version:%s buildtime:%s", VERSION, BUILDTIME)); err != nil {
		log.Error("post event failed", zap.Error(err))
	}
	log.Info("STOPPED", zap.String("version", VERSION), zap.String("buildtime", BUILDTIME))

	return nil
}
