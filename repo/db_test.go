package repo

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/yulrizka/numbergame/model"
)

// testStats runs the same checks against every DB implementation
func testStats(t *testing.T, db DB) {
	if err := db.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.IncStats("issued"); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.IncStats("validate.correct"); err != nil {
		t.Fatal(err)
	}

	n, err := db.Stats("issued")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := int64(3), n; want != got {
		t.Errorf("issued want %d got %d", want, got)
	}

	n, err = db.Stats("missing")
	if err != nil {
		t.Fatalf("missing key: %v", err)
	}
	if want, got := int64(0), n; want != got {
		t.Errorf("missing want %d got %d", want, got)
	}

	all, err := db.AllStats()
	if err != nil {
		t.Fatal(err)
	}
	want := model.Stats{"issued": 3, "validate.correct": 1}
	if !reflect.DeepEqual(want, all) {
		t.Errorf("all stats want %v got %v", want, all)
	}

	// concurrent increments are not lost
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := db.IncStats("validate.wrong"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if n, _ := db.Stats("validate.wrong"); n != 20 {
		t.Errorf("validate.wrong want 20 got %d", n)
	}

	if err := db.Reset(); err != nil {
		t.Fatal(err)
	}
	all, err = db.AllStats()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 0, len(all); want != got {
		t.Errorf("after reset want %d stats got %d", want, got)
	}
}

func TestMemoryDB(t *testing.T) {
	db, err := Open(DriverMemory, "")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	testStats(t, db)
}

func TestBoltDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	db, err := Open(DriverBolt, path)
	if err != nil {
		t.Fatal(err)
	}
	testStats(t, db)

	// counters survive a reopen
	if err := db.IncStats("issued"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	db, err = Open(DriverBolt, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if n, _ := db.Stats("issued"); n != 1 {
		t.Errorf("issued after reopen want 1 got %d", n)
	}
}

func TestSQLiteDB(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "stats.db") + "?_pragma=busy_timeout(5000)"
	db, err := Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	testStats(t, db)
}

// SQL servers are only tested when a DSN is given, e.g.
// POSTGRES_DSN=postgres://localhost:5432/numbergame_test?sslmode=disable
func TestSQLServerDB(t *testing.T) {
	for driver, env := range map[string]string{
		DriverPostgres: "POSTGRES_DSN",
		DriverMySQL:    "MYSQL_DSN",
	} {
		t.Run(driver, func(t *testing.T) {
			dsn := os.Getenv(env)
			if dsn == "" {
				t.Skipf("%s not set", env)
			}
			db, err := Open(driver, dsn)
			if err != nil {
				t.Fatal(err)
			}
			defer db.Close()
			testStats(t, db)
		})
	}
}

func TestRedisDB(t *testing.T) {
	r := &RedisDB{Prefix: "test_numbergame"}
	if err := r.Init(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer r.Close()
	testStats(t, r)
}

func TestWithRedisPrefix(t *testing.T) {
	db, err := newDB(DriverRedis, "", WithRedisPrefix("test_prefix"))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := "test_prefix", db.(*RedisDB).Prefix; want != got {
		t.Errorf("prefix want %q got %q", want, got)
	}

	// an empty prefix keeps the default
	db, err = newDB(DriverRedis, "", WithRedisPrefix(""))
	if err != nil {
		t.Fatal(err)
	}
	if want, got := "", db.(*RedisDB).Prefix; want != got {
		t.Errorf("prefix want %q got %q", want, got)
	}

	// other drivers are untouched
	db, err = newDB(DriverMemory, "", WithRedisPrefix("test_prefix"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := db.(*MemoryDB); !ok {
		t.Errorf("want *MemoryDB got %T", db)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}
