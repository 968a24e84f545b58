package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/hperssn/recharge/internal/domain"
)

var (
	bucketExercises   = []byte("exercises")
	bucketExerciseIDs = []byte("exercise_ids")
	bucketCompletions = []byte("completions")
)

// BoltRepository stores exercises keyed by insertion sequence, with a
// secondary id index, and completions keyed by record id.
type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(dbPath string) (*BoltRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("bolt: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("bolt: create db dir: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketExercises, bucketExerciseIDs, bucketCompletions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: create buckets: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func (r *BoltRepository) ListExercises(_ context.Context, f Filter) ([]domain.Exercise, error) {
	exercises := make([]domain.Exercise, 0)

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExercises).ForEach(func(_, v []byte) error {
			var e domain.Exercise
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			if f.match(e) {
				exercises = append(exercises, e)
			}
			return nil
		})
	})

	return exercises, err
}

func (r *BoltRepository) GetExercise(_ context.Context, id string) (domain.Exercise, error) {
	var e domain.Exercise

	err := r.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketExerciseIDs).Get([]byte(id))
		if key == nil {
			return domain.ErrNotFound
		}

		v := tx.Bucket(bucketExercises).Get(key)
		if v == nil {
			return domain.ErrNotFound
		}

		return json.Unmarshal(v, &e)
	})

	return e, err
}

func (r *BoltRepository) CreateExercise(_ context.Context, e domain.Exercise) (domain.Exercise, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Steps = nonNil(e.Steps)
	e.Tags = nonNil(e.Tags)

	value, err := json.Marshal(e)
	if err != nil {
		return domain.Exercise{}, err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketExercises)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := seqKey(seq)
		if err := b.Put(key, value); err != nil {
			return err
		}

		return tx.Bucket(bucketExerciseIDs).Put([]byte(e.ID), key)
	})
	if err != nil {
		return domain.Exercise{}, err
	}

	return e, nil
}

func (r *BoltRepository) SaveCompletion(_ context.Context, record *CompletionRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCompletions).Put([]byte(record.ID), value)
	})
}

func (r *BoltRepository) RateCompletion(_ context.Context, sessionID string, rating int) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCompletions)

		var latest *CompletionRecord
		err := b.ForEach(func(_, v []byte) error {
			var c CompletionRecord
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			if c.SessionID == sessionID && (latest == nil || !c.CompletedAt.Before(latest.CompletedAt)) {
				latest = &c
			}
			return nil
		})
		if err != nil {
			return err
		}
		if latest == nil {
			return ErrCompletionNotFound
		}

		latest.Rating = &rating
		value, err := json.Marshal(latest)
		if err != nil {
			return err
		}

		return b.Put([]byte(latest.ID), value)
	})
}

func (r *BoltRepository) allCompletions() ([]CompletionRecord, error) {
	var records []CompletionRecord

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCompletions).ForEach(func(_, v []byte) error {
			var c CompletionRecord
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			records = append(records, c)
			return nil
		})
	})

	return records, err
}

func (r *BoltRepository) CompletionsByUser(_ context.Context, userID string, limit int) ([]CompletionRecord, error) {
	all, err := r.allCompletions()
	if err != nil {
		return nil, err
	}
	return newestFirst(all, userID, limit), nil
}

func (r *BoltRepository) CompletionStats(_ context.Context, userID string) (*CompletionStats, error) {
	all, err := r.allCompletions()
	if err != nil {
		return nil, err
	}
	return statsOf(newestFirst(all, userID, 0)), nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}
