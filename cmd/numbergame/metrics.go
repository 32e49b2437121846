package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/cyberdelia/go-metrics-graphite"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/uber-go/zap"
	"github.com/yulrizka/numbergame/repo"
)

var (
	gaugeInterval     = 5 * time.Second
	goCollectInterval = 20 * time.Second

	graphiteWebURL = ""

	errorCount = metrics.NewRegisteredCounter("log.error", metrics.DefaultRegistry)

	statsKeysTotal = metrics.NewRegisteredGauge("stats.keys.total", metrics.DefaultRegistry)

	// golang metrics
	alloc        = metrics.NewRegisteredGauge("memory.alloc", metrics.DefaultRegistry)
	totalAlloc   = metrics.NewRegisteredGauge("memory.totalAlloc", metrics.DefaultRegistry)
	sys          = metrics.NewRegisteredGauge("memory.sys", metrics.DefaultRegistry)
	mallocs      = metrics.NewRegisteredGauge("memory.mallocs", metrics.DefaultRegistry)
	frees        = metrics.NewRegisteredGauge("memory.frees", metrics.DefaultRegistry)
	heapAlloc    = metrics.NewRegisteredGauge("memory.heapAlloc", metrics.DefaultRegistry)
	heapInuse    = metrics.NewRegisteredGauge("memory.heapInuse", metrics.DefaultRegistry)
	heapObjects  = metrics.NewRegisteredGauge("memory.heapObjects", metrics.DefaultRegistry)
	stackInuse   = metrics.NewRegisteredGauge("memory.stackInuse", metrics.DefaultRegistry)
	pauseTotalNs = metrics.NewRegisteredGauge("memory.pauseTotalNs", metrics.DefaultRegistry)
	numGC        = metrics.NewRegisteredGauge("memory.numGC", metrics.DefaultRegistry)
	numGoroutine = metrics.NewRegisteredGauge("go.NumGoroutine", metrics.DefaultRegistry)
)

// initMetrics starts the graphite reporter and the gauge collectors, they
// stop when ctx is done
func initMetrics(ctx context.Context, graphiteAddr string, db repo.DB) {
	if graphiteAddr != "" {
		addr, err := net.ResolveTCPAddr("tcp", graphiteAddr)
		if err != nil {
			log.Error("failed initializing graphite", zap.Error(err))
		} else {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "unknown"
			}
			prefix := fmt.Sprintf("%s.numbergame", hostname)
			go graphite.Graphite(metrics.DefaultRegistry, 10e9, prefix, addr)
			log.Info("graphite reporter started", zap.String("addr", graphiteAddr), zap.String("prefix", prefix))
		}
	}

	go every(ctx, gaugeInterval, func() {
		stats, err := db.AllStats()
		if err != nil {
			log.Error("retrieving stats failed", zap.Error(err))
			return
		}
		statsKeysTotal.Update(int64(len(stats)))
	})

	// collect memory statistics
	go every(ctx, goCollectInterval, collectMemStats)
}

func every(ctx context.Context, d time.Duration, fn func()) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}

func collectMemStats() {
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)

	alloc.Update(int64(ms.Alloc))
	totalAlloc.Update(int64(ms.TotalAlloc))
	sys.Update(int64(ms.Sys))
	mallocs.Update(int64(ms.Mallocs))
	frees.Update(int64(ms.Frees))
	heapAlloc.Update(int64(ms.HeapAlloc))
	heapInuse.Update(int64(ms.HeapInuse))
	heapObjects.Update(int64(ms.HeapObjects))
	stackInuse.Update(int64(ms.StackInuse))
	pauseTotalNs.Update(int64(ms.PauseTotalNs))
	numGC.Update(int64(ms.NumGC))
	numGoroutine.Update(int64(runtime.NumGoroutine()))
}

// postEvent annotates graphite with a deployment event
func postEvent(what, tags, data string) error {
	if graphiteWebURL == "" {
		return nil
	}

	payload := struct {
		What string `json:"what"`
		Tags string `json:"tags"`
		Data string `json:"data"`
	}{what, tags, data}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}
	hc := &http.Client{Timeout: 10 * time.Second}
	resp, err := hc.Post(graphiteWebURL+"/events/", "application/json", &buf)
	if err != nil {
		log.Error("failed sending event to graphite", zap.Error(err))
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("graphite event: unexpected status %d", resp.StatusCode)
	}

	return nil
}
