// Package local implements the offline/demo record store on a bbolt file.
// Each entity type lives under one fixed key holding a JSON array of
// records, mirroring the device-scoped storage the hosted mode replaces.
// A value that fails to parse is treated as an empty collection; lists
// never fail.
package local

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketName = "confia"

	customersKey    = "confia_customers"
	suppliersKey    = "confia_suppliers"
	transactionsKey = "confia_transactions"
)

// Store is the local Store implementation backed by a single bbolt file.
type Store struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens (or creates) the bbolt file at path and ensures the record
// bucket exists.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("local store: opening %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("local store: creating bucket: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the underlying bbolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// readAll decodes the JSON array stored under key. An absent key or a
// malformed payload yields an empty slice, never an error.
func readAll[T any](s *Store, key string) []T {
	var records []T
	_ = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &records); err != nil {
			s.log.Warn().Str("key", key).Err(err).Msg("Discarding malformed local data")
			records = nil
		}
		return nil
	})
	if records == nil {
		records = []T{}
	}
	return records
}

// appendRecord appends one record to the array under key in a single
// read-modify-write transaction.
func appendRecord[T any](s *Store, key string, record T) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))

		var records []T
		if data := bucket.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, &records); err != nil {
				s.log.Warn().Str("key", key).Err(err).Msg("Discarding malformed local data")
				records = nil
			}
		}
		records = append(records, record)

		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("local store: encoding %s: %w", key, err)
		}
		return bucket.Put([]byte(key), data)
	})
}

// removeRecord rewrites the array under key without the records matched by
// keep-filter; an id that matches nothing leaves the array unchanged.
func removeRecord[T any](s *Store, key string, keep func(T) bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))

		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}

		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			s.log.Warn().Str("key", key).Err(err).Msg("Discarding malformed local data")
			records = nil
		}

		kept := make([]T, 0, len(records))
		for _, r := range records {
			if keep(r) {
				kept = append(kept, r)
			}
		}

		out, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("local store: encoding %s: %w", key, err)
		}
		return bucket.Put([]byte(key), out)
	})
}
