package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"

	"zenith-pos/internal/domain"
)

var _ Backend = (*Bolt)(nil)

var (
	rowsBucket = []byte("rows") // seq -> boltRow
	idsBucket  = []byte("ids")  // id -> seq
)

// boltRow is the value stored under each sequence key.
type boltRow struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Bolt is a single-file Backend on bbolt. Each collection is a top-level
// bucket holding a rows bucket keyed by big-endian sequence and an id index.
// bbolt allows one writer at a time, which serializes SeedIfEmpty.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the database file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	return &Bolt{db: db}, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// buckets returns the rows and ids buckets of collection, or nils when the
// collection has never been written.
func buckets(tx *bbolt.Tx, collection string) (*bbolt.Bucket, *bbolt.Bucket) {
	top := tx.Bucket([]byte(collection))
	if top == nil {
		return nil, nil
	}
	return top.Bucket(rowsBucket), top.Bucket(idsBucket)
}

func createBuckets(tx *bbolt.Tx, collection string) (*bbolt.Bucket, *bbolt.Bucket, error) {
	top, err := tx.CreateBucketIfNotExists([]byte(collection))
	if err != nil {
		return nil, nil, err
	}
	rows, err := top.CreateBucketIfNotExists(rowsBucket)
	if err != nil {
		return nil, nil, err
	}
	ids, err := top.CreateBucketIfNotExists(idsBucket)
	if err != nil {
		return nil, nil, err
	}
	return rows, ids, nil
}

func (b *Bolt) List(ctx context.Context, collection string, after int64, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := []Row{}
	err := b.db.View(func(tx *bbolt.Tx) error {
		rb, _ := buckets(tx, collection)
		if rb == nil {
			return nil
		}
		c := rb.Cursor()
		for k, v := c.Seek(seqKey(uint64(after) + 1)); k != nil && len(rows) < limit; k, v = c.Next() {
			var r boltRow
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			rows = append(rows, Row{
				ID:   r.ID,
				Seq:  int64(binary.BigEndian.Uint64(k)),
				Data: slices.Clone([]byte(r.Data)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return rows, nil
}

func (b *Bolt) Insert(ctx context.Context, collection, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.update(func(tx *bbolt.Tx) error {
		rb, ib, err := createBuckets(tx, collection)
		if err != nil {
			return err
		}
		if ib.Get([]byte(id)) != nil {
			return domain.ErrDuplicateID
		}
		return putRow(rb, ib, id, data)
	})
}

func putRow(rb, ib *bbolt.Bucket, id string, data []byte) error {
	seq, err := rb.NextSequence()
	if err != nil {
		return err
	}
	value, err := json.Marshal(boltRow{ID: id, Data: data})
	if err != nil {
		return err
	}
	key := seqKey(seq)
	if err := rb.Put(key, value); err != nil {
		return err
	}
	return ib.Put([]byte(id), key)
}

func (b *Bolt) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		rb, ib := buckets(tx, collection)
		if rb == nil {
			return domain.ErrNotFound
		}
		key := ib.Get([]byte(id))
		if key == nil {
			return domain.ErrNotFound
		}
		var r boltRow
		if err := json.Unmarshal(rb.Get(key), &r); err != nil {
			return err
		}
		out = slices.Clone([]byte(r.Data))
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return out, nil
}

func (b *Bolt) Replace(ctx context.Context, collection, id string, data []byte) error {
	return b.Update(ctx, collection, id, func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (b *Bolt) Update(ctx context.Context, collection, id string, fn func([]byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.update(func(tx *bbolt.Tx) error {
		rb, ib := buckets(tx, collection)
		if rb == nil {
			return domain.ErrNotFound
		}
		key := ib.Get([]byte(id))
		if key == nil {
			return domain.ErrNotFound
		}
		var r boltRow
		if err := json.Unmarshal(rb.Get(key), &r); err != nil {
			return err
		}
		data, err := fn(slices.Clone([]byte(r.Data)))
		if err != nil {
			return err
		}
		value, err := json.Marshal(boltRow{ID: id, Data: data})
		if err != nil {
			return err
		}
		return rb.Put(slices.Clone(key), value)
	})
}

func (b *Bolt) Delete(ctx context.Context, collection string, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed := 0
	err := b.update(func(tx *bbolt.Tx) error {
		rb, ib := buckets(tx, collection)
		if rb == nil {
			return nil
		}
		for _, id := range ids {
			key := ib.Get([]byte(id))
			if key == nil {
				continue
			}
			key = slices.Clone(key)
			if err := rb.Delete(key); err != nil {
				return err
			}
			if err := ib.Delete([]byte(id)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (b *Bolt) SeedIfEmpty(ctx context.Context, collection string, seeds []Seed) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	inserted := false
	err := b.update(func(tx *bbolt.Tx) error {
		rb, ib, err := createBuckets(tx, collection)
		if err != nil {
			return err
		}
		if k, _ := rb.Cursor().First(); k != nil {
			return nil
		}
		for _, s := range seeds {
			if ib.Get([]byte(s.ID)) != nil {
				continue
			}
			if err := putRow(rb, ib, s.ID, s.Data); err != nil {
				return err
			}
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// update runs fn in a write transaction and tags storage faults as
// persistence failures while letting domain sentinels through untouched.
func (b *Bolt) update(fn func(tx *bbolt.Tx) error) error {
	err := b.db.Update(fn)
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
