package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"zenith-pos/internal/domain"
)

var _ Backend = (*Postgres)(nil)

// Postgres is a Backend on the records table created by the database
// migrations. Seeding takes a transaction-scoped advisory lock keyed by the
// collection name so concurrent first calls serialize.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle. The handle stays owned by the
// caller; Close is a no-op.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) List(ctx context.Context, collection string, after int64, limit int) ([]Row, error) {
	query := `
		SELECT id, seq, data
		FROM records
		WHERE collection = $1 AND seq > $2
		ORDER BY seq ASC
		LIMIT $3
	`

	rows, err := p.db.QueryContext(ctx, query, collection, after, limit)
	if err != nil {
		return nil, persistence("failed to list records", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Seq, &r.Data); err != nil {
			return nil, persistence("failed to scan record", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("error iterating records", err)
	}
	return out, nil
}

func (p *Postgres) Insert(ctx context.Context, collection, id string, data []byte) error {
	query := `INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)`

	if _, err := p.db.ExecContext(ctx, query, collection, id, data); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateID
		}
		return persistence("failed to insert record", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) ([]byte, error) {
	query := `SELECT data FROM records WHERE collection = $1 AND id = $2`

	var data []byte
	err := p.db.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, persistence("failed to get record", err)
	}
	return data, nil
}

func (p *Postgres) Replace(ctx context.Context, collection, id string, data []byte) error {
	query := `UPDATE records SET data = $3 WHERE collection = $1 AND id = $2`

	result, err := p.db.ExecContext(ctx, query, collection, id, data)
	if err != nil {
		return persistence("failed to replace record", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fn func([]byte) ([]byte, error)) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		var data []byte
		err := tx.QueryRowContext(ctx,
			`SELECT data FROM records WHERE collection = $1 AND id = $2 FOR UPDATE`,
			collection, id,
		).Scan(&data)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}

		updated, err := fn(data)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE records SET data = $3 WHERE collection = $1 AND id = $2`,
			collection, id, updated,
		)
		return err
	})
}

func (p *Postgres) Delete(ctx context.Context, collection string, ids []string) (int, error) {
	query := `DELETE FROM records WHERE collection = $1 AND id = ANY($2)`

	result, err := p.db.ExecContext(ctx, query, collection, ids)
	if err != nil {
		return 0, persistence("failed to delete records", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, persistence("failed to get rows affected", err)
	}
	return int(rowsAffected), nil
}

func (p *Postgres) SeedIfEmpty(ctx context.Context, collection string, seeds []Seed) (bool, error) {
	inserted := false
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, collection); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM records WHERE collection = $1)`,
			collection,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		for _, s := range seeds {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO records (collection, id, data) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				collection, s.ID, s.Data,
			)
			if err != nil {
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

func (p *Postgres) Close() error {
	return nil
}

// inTx runs fn in a transaction, committing on success.
func (p *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		if isDomainError(err) {
			return err
		}
		return persistence("transaction failed", err)
	}
	if err := tx.Commit(); err != nil {
		return persistence("failed to commit transaction", err)
	}
	return nil
}

func persistence(msg string, err error) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, msg, err)
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
