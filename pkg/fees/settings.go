// Persisted key-value settings.
//
// The legacy fee policy keeps two of its defaults (minimum fee and minimum
// relay fee) in a simple persisted key-value store so they survive restarts.
// The Store interface is all the estimator needs; BoltStore implements it on
// a single bbolt bucket.
package fees

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Store supplies persisted int64 settings by key.
type Store interface {
	// Int64 returns the stored value for key, or def when unset.
	Int64(key string, def int64) int64

	// SetInt64 stores the value for key.
	SetInt64(key string, value int64) error
}

var settingsBucket = []byte("settings")

// BoltStore is a Store backed by a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if needed) the settings database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}
	err = db.Update(func(dbTx *bolt.Tx) error {
		_, err := dbTx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Int64 returns the stored value for key, or def when the key is unset or
// holds a malformed value.
func (s *BoltStore) Int64(key string, def int64) int64 {
	value := def
	_ = s.db.View(func(dbTx *bolt.Tx) error {
		raw := dbTx.Bucket(settingsBucket).Get([]byte(key))
		if len(raw) == 8 {
			value = int64(binary.LittleEndian.Uint64(raw))
		}
		return nil
	})
	return value
}

// SetInt64 stores the value for key.
func (s *BoltStore) SetInt64(key string, value int64) error {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], uint64(value))
	return s.db.Update(func(dbTx *bolt.Tx) error {
		return dbTx.Bucket(settingsBucket).Put([]byte(key), raw[:])
	})
}
