package repo

import (
	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame/model"
)

// DB persists the game statistics
type DB interface {
	Init() error
	Reset() error
	Close() error

	// Stats command
	IncStats(key string) error
	Stats(key string) (int64, error)
	AllStats() (model.Stats, error)
}

// Supported drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Drivers lists every supported driver name
var Drivers = []string{DriverMemory, DriverRedis, DriverBolt, DriverSQLite, DriverPostgres, DriverMySQL}

// Option tunes a DB before it is initialized
type Option func(DB)

// WithRedisPrefix sets the key prefix of a redis DB, other drivers ignore it
func WithRedisPrefix(prefix string) Option {
	return func(db DB) {
		if r, ok := db.(*RedisDB); ok && prefix != "" {
			r.Prefix = prefix
		}
	}
}

// Open creates and initializes the DB for driver. dsn is the redis address,
// the bolt file path or the SQL data source name, empty uses a default.
func Open(driver, dsn string, opts ...Option) (DB, error) {
	db, err := newDB(driver, dsn, opts...)
	if err != nil {
		return nil, err
	}
	if err := db.Init(); err != nil {
		return nil, errors.Wrapf(err, "repo: init %s", driver)
	}
	return db, nil
}

func newDB(driver, dsn string, opts ...Option) (DB, error) {
	var db DB
	switch driver {
	case DriverMemory, "":
		db = new(MemoryDB)
	case DriverRedis:
		db = &RedisDB{Addr: dsn}
	case DriverBolt:
		db = &BoltDB{Path: dsn}
	case DriverSQLite, DriverPostgres, DriverMySQL:
		db = &SQLDB{Driver: driver, DSN: dsn}
	default:
		return nil, errors.Errorf("repo: unsupported driver %q", driver)
	}
	for _, opt := range opts {
		opt(db)
	}

	return db, nil
}
