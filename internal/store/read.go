package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

// History returns recorded queries newest first by seq.
// A limit of zero or less returns every record.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) History(ctx context.Context, limit int) ([]QueryRecord, error) {
	query := `
		SELECT id, fingerprint, integers_as_float, request, query, seq
		FROM compiled_queries
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return collectQueries(rows)
}

// Lookup returns every rendering recorded for a request fingerprint,
// ordered by seq. Returns ErrNotFound when there is none.
func (s *Store) Lookup(ctx context.Context, fingerprint string) ([]QueryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, integers_as_float, request, query, seq
		FROM compiled_queries
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", fingerprint, err)
	}

	records, err := collectQueries(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("lookup %s: %w", fingerprint, ErrNotFound)
	}
	return records, nil
}

// ReadBatch returns a recorded batch with its members in statement order.
// Returns ErrNotFound for an unknown ID.
func (s *Store) ReadBatch(ctx context.Context, id string) (Batch, error) {
	var b Batch
	err := s.db.QueryRowContext(ctx, `
		SELECT id, statement, seq FROM batches WHERE id = ?
	`, id).Scan(&b.ID, &b.Statement, &b.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, fmt.Errorf("read batch %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("read batch %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.fingerprint, q.integers_as_float, q.request, q.query, q.seq
		FROM batch_members m
		JOIN compiled_queries q ON q.id = m.query_id
		WHERE m.batch_id = ?
		ORDER BY m.position ASC
	`, id)
	if err != nil {
		return Batch{}, fmt.Errorf("read batch members: %w", err)
	}
	b.Members, err = collectQueries(rows)
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuery(row rowScanner) (QueryRecord, error) {
	var rec QueryRecord
	var asFloat int
	if err := row.Scan(&rec.ID, &rec.Fingerprint, &asFloat, &rec.Request, &rec.Query, &rec.Seq); err != nil {
		return QueryRecord{}, err
	}
	rec.IntegersAsFloat = asFloat != 0
	return rec, nil
}

func collectQueries(rows *sql.Rows) ([]QueryRecord, error) {
	defer rows.Close()

	records := []QueryRecord{}
	for rows.Next() {
		rec, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return records, nil
}
