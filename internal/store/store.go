// Package store persists named collections of keyed JSON records.
//
// Each backend assigns every inserted record a monotonically increasing
// sequence number. Lists walk the sequence in ascending order and cursors
// encode the last sequence a caller has seen, so deleting already-seen records
// never shifts a traversal. There is no snapshot isolation: records created or
// deleted by other callers between two page fetches may be seen or skipped.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zenith-pos/internal/domain"
)

const (
	// DefaultPageSize applies when a caller passes no limit.
	DefaultPageSize = 100
	// MaxPageSize caps caller-supplied limits.
	MaxPageSize = 1000

	cursorPrefix = "seq:"
)

// Row is a raw stored record.
type Row struct {
	ID   string
	Seq  int64
	Data []byte
}

// Seed is a record to insert during EnsureSeed.
type Seed struct {
	ID   string
	Data []byte
}

// Backend is the raw persistence contract implemented by every driver.
type Backend interface {
	// List returns up to limit rows of collection with Seq > after, in Seq order.
	List(ctx context.Context, collection string, after int64, limit int) ([]Row, error)
	// Insert stores a new record. It returns domain.ErrDuplicateID when id is taken.
	Insert(ctx context.Context, collection, id string, data []byte) error
	// Get returns the record data or domain.ErrNotFound.
	Get(ctx context.Context, collection, id string) ([]byte, error)
	// Replace overwrites an existing record in place, or returns domain.ErrNotFound.
	Replace(ctx context.Context, collection, id string, data []byte) error
	// Update atomically replaces a record with fn's output.
	Update(ctx context.Context, collection, id string, fn func([]byte) ([]byte, error)) error
	// Delete removes the given ids and reports how many existed.
	Delete(ctx context.Context, collection string, ids []string) (int, error)
	// SeedIfEmpty inserts seeds only when collection holds no records. Concurrent
	// callers are serialized so at most one of them inserts.
	SeedIfEmpty(ctx context.Context, collection string, seeds []Seed) (bool, error)
	Close() error
}

// EncodeCursor turns a sequence position into an opaque token.
func EncodeCursor(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatInt(seq, 10)))
}

// DecodeCursor reverses EncodeCursor. The empty cursor is the start of the list.
func DecodeCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	seq, err := strconv.ParseInt(s, 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	return seq, nil
}

// ClampLimit applies the page size policy to a caller-supplied limit.
func ClampLimit(limit, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if limit <= 0 {
		return pageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// isDomainError reports whether err already carries a classification callers
// act on, so backends do not re-tag it as a persistence failure.
func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrDuplicateID,
		domain.ErrPersistence,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
