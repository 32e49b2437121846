package repo

import (
	"context"
	"database/sql"
	"time"

	// sql drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame/model"
	_ "modernc.org/sqlite"
)

// SQLDB keeps the stats in a sqlite, postgres or mysql table
//
//	CREATE TABLE IF NOT EXISTS stats (
//	  name  TEXT PRIMARY KEY,
//	  value BIGINT NOT NULL DEFAULT 0
//	);
type SQLDB struct {
	Driver string
	DSN    string

	db *sql.DB
	q  dialect
}

type dialect struct {
	driver string
	dsn    string
	schema string
	inc    string
	get    string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driver: "sqlite", // modernc driver
		dsn:    "file:numbergame.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)",
		schema: `CREATE TABLE IF NOT EXISTS stats (name TEXT PRIMARY KEY, value BIGINT NOT NULL DEFAULT 0)`,
		inc: `INSERT INTO stats (name, value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET value = stats.value + 1`,
		get: `SELECT value FROM stats WHERE name=$1`,
	},
	DriverPostgres: {
		driver: "pgx", // pgx stdlib driver
		dsn:    "postgres://localhost:5432/numbergame?sslmode=disable",
		schema: `CREATE TABLE IF NOT EXISTS stats (name TEXT PRIMARY KEY, value BIGINT NOT NULL DEFAULT 0)`,
		inc: `INSERT INTO stats (name, value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET value = stats.value + 1`,
		get: `SELECT value FROM stats WHERE name=$1`,
	},
	DriverMySQL: {
		driver: "mysql",
		dsn:    "root@tcp(localhost:3306)/numbergame",
		schema: "CREATE TABLE IF NOT EXISTS stats (`name` VARCHAR(191) NOT NULL PRIMARY KEY, `value` BIGINT NOT NULL DEFAULT 0)",
		inc:    "INSERT INTO stats (`name`, `value`) VALUES (?, 1) ON DUPLICATE KEY UPDATE `value` = `value` + 1",
		get:    "SELECT `value` FROM stats WHERE `name` = ?",
	},
}

func (s *SQLDB) Init() error {
	defer dbInitTimer.UpdateSince(time.Now())

	q, ok := dialects[s.Driver]
	if !ok {
		return errors.Errorf("unsupported sql driver %q", s.Driver)
	}
	dsn := s.DSN
	if dsn == "" {
		dsn = q.dsn
	}

	db, err := sql.Open(q.driver, dsn)
	if err != nil {
		return errors.Wrap(err, "sql open")
	}
	if s.Driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, "sql ping")
	}
	if _, err := db.ExecContext(ctx, q.schema); err != nil {
		db.Close()
		return errors.Wrap(err, "ensure schema")
	}
	s.db = db
	s.q = q

	return nil
}

func (s *SQLDB) Reset() error {
	defer dbResetTimer.UpdateSince(time.Now())

	_, err := s.db.Exec(`DELETE FROM stats`)
	return err
}

func (s *SQLDB) Close() error {
	return s.db.Close()
}

func (s *SQLDB) IncStats(key string) error {
	defer dbIncStatsTimer.UpdateSince(time.Now())

	_, err := s.db.Exec(s.q.inc, key)
	return err
}

func (s *SQLDB) Stats(key string) (int64, error) {
	defer dbStatsTimer.UpdateSince(time.Now())

	var v int64
	err := s.db.QueryRow(s.q.get, key).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return v, err
}

func (s *SQLDB) AllStats() (model.Stats, error) {
	defer dbAllStatsTimer.UpdateSince(time.Now())

	rows, err := s.db.Query(`SELECT name, value FROM stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(model.Stats)
	for rows.Next() {
		var (
			name  string
			value int64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		stats[name] = value
	}

	return stats, rows.Err()
}
