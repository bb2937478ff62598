package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Entity is implemented by pointers to record types that carry their own id.
type Entity[T any] interface {
	*T
	RecordID() string
	SetRecordID(id string)
}

// Page is one slice of a cursor traversal. Next is nil on the last page.
type Page[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
}

// Option configures a Collection.
type Option func(*collectionOptions)

type collectionOptions struct {
	pageSize int
}

// WithPageSize sets the default page size used when List gets no limit.
func WithPageSize(n int) Option {
	return func(o *collectionOptions) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// Collection is a typed view over one named collection of a Backend.
type Collection[T any, P Entity[T]] struct {
	name     string
	backend  Backend
	seed     []T
	pageSize int
}

// NewCollection binds name on backend to the record type T. seed is the
// dataset EnsureSeed inserts into an empty collection.
func NewCollection[T any, P Entity[T]](backend Backend, name string, seed []T, opts ...Option) *Collection[T, P] {
	o := collectionOptions{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T, P]{
		name:     name,
		backend:  backend,
		seed:     seed,
		pageSize: o.pageSize,
	}
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string {
	return c.name
}

// List returns a page of records starting after cursor.
func (c *Collection[T, P]) List(ctx context.Context, cursor string, limit int) (Page[T], error) {
	after, err := DecodeCursor(cursor)
	if err != nil {
		return Page[T]{}, err
	}
	limit = ClampLimit(limit, c.pageSize)

	rows, err := c.backend.List(ctx, c.name, after, limit+1)
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to list %s: %w", c.name, err)
	}

	page := Page[T]{Items: make([]T, 0, min(len(rows), limit))}
	if len(rows) > limit {
		next := EncodeCursor(rows[limit-1].Seq)
		page.Next = &next
		rows = rows[:limit]
	}
	for _, row := range rows {
		var rec T
		if err := json.Unmarshal(row.Data, &rec); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode %s/%s: %w", c.name, row.ID, err)
		}
		page.Items = append(page.Items, rec)
	}
	return page, nil
}

// All walks every page and returns the full collection in insertion order.
func (c *Collection[T, P]) All(ctx context.Context) ([]T, error) {
	var (
		out    []T
		cursor string
	)
	for {
		page, err := c.List(ctx, cursor, MaxPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if page.Next == nil {
			return out, nil
		}
		cursor = *page.Next
	}
}

// Create persists rec, assigning a random id when it has none.
func (c *Collection[T, P]) Create(ctx context.Context, rec T) (T, error) {
	p := P(&rec)
	if p.RecordID() == "" {
		p.SetRecordID(uuid.NewString())
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.backend.Insert(ctx, c.name, p.RecordID(), data); err != nil {
		return rec, fmt.Errorf("failed to create %s/%s: %w", c.name, p.RecordID(), err)
	}
	return rec, nil
}

// Get loads a record by id.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	data, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		return rec, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode %s/%s: %w", c.name, id, err)
	}
	return rec, nil
}

// Exists reports whether id is stored.
func (c *Collection[T, P]) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.backend.Get(ctx, c.name, id)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s/%s: %w", c.name, id, err)
}

// Save fully replaces the record stored under id.
func (c *Collection[T, P]) Save(ctx context.Context, id string, rec T) (T, error) {
	P(&rec).SetRecordID(id)
	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.backend.Replace(ctx, c.name, id, data); err != nil {
		return rec, fmt.Errorf("failed to save %s/%s: %w", c.name, id, err)
	}
	return rec, nil
}

// Mutate applies fn to the stored record under the backend's write boundary,
// so concurrent mutations of the same record never lose updates.
func (c *Collection[T, P]) Mutate(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var out T
	err := c.backend.Update(ctx, c.name, id, func(data []byte) ([]byte, error) {
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", c.name, id, err)
		}
		if err := fn(&rec); err != nil {
			return nil, err
		}
		P(&rec).SetRecordID(id)
		out = rec
		return json.Marshal(rec)
	})
	if err != nil {
		return out, fmt.Errorf("failed to update %s/%s: %w", c.name, id, err)
	}
	return out, nil
}

// Delete removes id and reports whether it existed.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := c.backend.Delete(ctx, c.name, []string{id})
	if err != nil {
		return false, fmt.Errorf("failed to delete %s/%s: %w", c.name, id, err)
	}
	return n > 0, nil
}

// DeleteMany removes every listed id and returns how many existed.
func (c *Collection[T, P]) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := c.backend.Delete(ctx, c.name, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.name, err)
	}
	return n, nil
}

// EnsureSeed inserts the seed dataset iff the collection is empty. It is safe
// to call on every request and reports whether this call inserted.
func (c *Collection[T, P]) EnsureSeed(ctx context.Context) (bool, error) {
	if len(c.seed) == 0 {
		return false, nil
	}
	seeds := make([]Seed, 0, len(c.seed))
	for _, rec := range c.seed {
		p := P(&rec)
		if p.RecordID() == "" {
			p.SetRecordID(uuid.NewString())
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return false, fmt.Errorf("failed to encode %s seed: %w", c.name, err)
		}
		seeds = append(seeds, Seed{ID: p.RecordID(), Data: data})
	}
	inserted, err := c.backend.SeedIfEmpty(ctx, c.name, seeds)
	if err != nil {
		return false, fmt.Errorf("failed to seed %s: %w", c.name, err)
	}
	return inserted, nil
}
