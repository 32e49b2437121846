package repo

import "github.com/rcrowley/go-metrics"

var (
	// db metrics
	dbInitTimer     = metrics.NewRegisteredTimer("db.init.ns", metrics.DefaultRegistry)
	dbResetTimer    = metrics.NewRegisteredTimer("db.reset.ns", metrics.DefaultRegistry)
	dbIncStatsTimer = metrics.NewRegisteredTimer("db.incStats.ns", metrics.DefaultRegistry)
	dbStatsTimer    = metrics.NewRegisteredTimer("db.stats.ns", metrics.DefaultRegistry)
	dbAllStatsTimer = metrics.NewRegisteredTimer("db.allStats.ns", metrics.DefaultRegistry)

	redisPoolCount = metrics.NewRegisteredGauge("redis.pool.count", metrics.DefaultRegistry)
)
