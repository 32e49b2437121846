package repo

import (
	"encoding/binary"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame/model"
)

var statsBucket = []byte("stats")

// BoltDB keeps the stats in a local bolt file
type BoltDB struct {
	Path string

	db *bolt.DB
}

func (d *BoltDB) Init() (err error) {
	defer dbInitTimer.UpdateSince(time.Now())

	if d.Path == "" {
		d.Path = "numbergame.db"
	}
	d.db, err = bolt.Open(d.Path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Wrapf(err, "open %q", d.Path)
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(statsBucket)
		if err != nil {
			return errors.Wrap(err, "create bucket")
		}
		return nil
	})
}

func (d *BoltDB) Reset() error {
	defer dbResetTimer.UpdateSince(time.Now())

	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(statsBucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(statsBucket)
		return err
	})
}

func (d *BoltDB) Close() error {
	return d.db.Close()
}

func (d *BoltDB) IncStats(key string) error {
	defer dbIncStatsTimer.UpdateSince(time.Now())

	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(statsBucket)
		v := decodeCounter(b.Get([]byte(key)))
		return b.Put([]byte(key), encodeCounter(v+1))
	})
}

func (d *BoltDB) Stats(key string) (n int64, err error) {
	defer dbStatsTimer.UpdateSince(time.Now())

	err = d.db.View(func(tx *bolt.Tx) error {
		n = decodeCounter(tx.Bucket(statsBucket).Get([]byte(key)))
		return nil
	})
	return n, err
}

func (d *BoltDB) AllStats() (model.Stats, error) {
	defer dbAllStatsTimer.UpdateSince(time.Now())

	stats := make(model.Stats)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(statsBucket).ForEach(func(k, v []byte) error {
			stats[string(k)] = decodeCounter(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func encodeCounter(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func decodeCounter(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
