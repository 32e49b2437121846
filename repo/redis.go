package repo

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame/model"
)

// DefaultRedisPrefix namespaces every key written by RedisDB
const DefaultRedisPrefix = "numbergame"

// RedisDB keeps the stats in a redis hash "<prefix>_stats"
type RedisDB struct {
	Addr   string
	Prefix string

	pool     *redis.Pool
	statsKey string
	quit     chan struct{}
}

func (r *RedisDB) Init() (err error) {
	defer dbInitTimer.UpdateSince(time.Now())

	addr := r.Addr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		addr = ":6379"
	}
	if r.Prefix == "" {
		r.Prefix = DefaultRedisPrefix
	}
	r.statsKey = fmt.Sprintf("%s_stats", r.Prefix)

	r.pool = &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			c, err := redis.Dial("tcp", addr)
			if err != nil {
				return nil, err
			}
			return c, err
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
	conn := r.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		r.pool.Close()
		return errors.Wrapf(err, "redis ping %s", addr)
	}

	r.quit = make(chan struct{})
	go func() {
		tick := time.NewTicker(5 * time.Second)
		defer tick.Stop()
		for {
			select {
			case <-r.quit:
				return
			case <-tick.C:
				redisPoolCount.Update(int64(r.pool.ActiveCount()))
			}
		}
	}()

	return nil
}

func (r *RedisDB) Reset() error {
	defer dbResetTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	_, err := conn.Do("DEL", r.statsKey)
	return err
}

func (r *RedisDB) Close() error {
	if r.quit != nil {
		close(r.quit)
		r.quit = nil
	}
	return r.pool.Close()
}

func (r *RedisDB) IncStats(key string) error {
	defer dbIncStatsTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	_, err := conn.Do("HINCRBY", r.statsKey, key, 1)
	return err
}

func (r *RedisDB) Stats(key string) (int64, error) {
	defer dbStatsTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	v, err := redis.Int64(conn.Do("HGET", r.statsKey, key))
	if err == redis.ErrNil {
		return 0, nil
	}
	return v, err
}

func (r *RedisDB) AllStats() (model.Stats, error) {
	defer dbAllStatsTimer.UpdateSince(time.Now())

	conn := r.pool.Get()
	defer conn.Close()

	values, err := redis.StringMap(conn.Do("HGETALL", r.statsKey))
	if err != nil {
		return nil, err
	}
	stats := make(model.Stats, len(values))
	for k, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "stats %q", k)
		}
		stats[k] = n
	}

	return stats, nil
}
