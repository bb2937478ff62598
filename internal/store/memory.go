package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"zenith-pos/internal/domain"
)

var _ Backend = (*Memory)(nil)

// Memory is a process-local Backend used for development and tests.
type Memory struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]*memCollection
}

type memCollection struct {
	byID  map[string]*Row
	order []*Row // ascending Seq
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{byID: make(map[string]*Row)}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) List(ctx context.Context, collection string, after int64, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return []Row{}, nil
	}
	start := sort.Search(len(c.order), func(i int) bool { return c.order[i].Seq > after })
	end := min(start+limit, len(c.order))

	rows := make([]Row, 0, end-start)
	for _, row := range c.order[start:end] {
		rows = append(rows, Row{ID: row.ID, Seq: row.Seq, Data: slices.Clone(row.Data)})
	}
	return rows, nil
}

func (m *Memory) Insert(ctx context.Context, collection, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, exists := c.byID[id]; exists {
		return domain.ErrDuplicateID
	}
	m.insertLocked(c, id, data)
	return nil
}

func (m *Memory) insertLocked(c *memCollection, id string, data []byte) {
	m.seq++
	row := &Row{ID: id, Seq: m.seq, Data: slices.Clone(data)}
	c.byID[id] = row
	c.order = append(c.order, row)
}

func (m *Memory) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}
	row, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(row.Data), nil
}

func (m *Memory) Replace(ctx context.Context, collection, id string, data []byte) error {
	return m.Update(ctx, collection, id, func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (m *Memory) Update(ctx context.Context, collection, id string, fn func([]byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return domain.ErrNotFound
	}
	row, ok := c.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	data, err := fn(slices.Clone(row.Data))
	if err != nil {
		return err
	}
	row.Data = slices.Clone(data)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection string, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return 0, nil
	}
	removed := 0
	for _, id := range ids {
		if _, exists := c.byID[id]; exists {
			delete(c.byID, id)
			removed++
		}
	}
	if removed > 0 {
		c.order = slices.DeleteFunc(c.order, func(row *Row) bool {
			_, kept := c.byID[row.ID]
			return !kept
		})
	}
	return removed, nil
}

func (m *Memory) SeedIfEmpty(ctx context.Context, collection string, seeds []Seed) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if len(c.order) > 0 {
		return false, nil
	}
	for _, s := range seeds {
		if _, exists := c.byID[s.ID]; exists {
			continue
		}
		m.insertLocked(c, s.ID, s.Data)
	}
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}
