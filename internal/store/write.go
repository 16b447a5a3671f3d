package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RecordQuery stores a compiled query and returns the stored record.
//
// Records are unique per (fingerprint, integers_as_float). Uses ON CONFLICT
// DO NOTHING for idempotency: recording the same request twice returns the
// first record, including its original ID and seq.
func (s *Store) RecordQuery(ctx context.Context, rec QueryRecord) (QueryRecord, error) {
	if rec.Fingerprint == "" {
		return QueryRecord{}, fmt.Errorf("record query: fingerprint is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("record query: begin tx: %w", err)
	}
	defer tx.Rollback()

	stored, inserted, err := s.recordQueryTx(ctx, tx, rec)
	if err != nil {
		return QueryRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return QueryRecord{}, fmt.Errorf("record query: commit: %w", err)
	}

	s.logger.Debug("recorded query",
		"id", stored.ID,
		"fingerprint", stored.Fingerprint,
		"seq", stored.Seq,
		"inserted", inserted)
	return stored, nil
}

func (s *Store) recordQueryTx(ctx context.Context, tx *sql.Tx, rec QueryRecord) (QueryRecord, bool, error) {
	rec.ID = s.ids.Generate()
	rec.Seq = s.clock.Next()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO compiled_queries
		(id, fingerprint, integers_as_float, request, query, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, integers_as_float) DO NOTHING
	`,
		rec.ID,
		rec.Fingerprint,
		boolToInt(rec.IntegersAsFloat),
		rec.Request,
		rec.Query,
		rec.Seq,
	)
	if err != nil {
		return QueryRecord{}, false, fmt.Errorf("record query: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return QueryRecord{}, false, fmt.Errorf("record query: rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return rec, true, nil
	}

	// Conflict: return the record already stored for this request.
	existing, err := scanQuery(tx.QueryRowContext(ctx, `
		SELECT id, fingerprint, integers_as_float, request, query, seq
		FROM compiled_queries
		WHERE fingerprint = ? AND integers_as_float = ?
	`, rec.Fingerprint, boolToInt(rec.IntegersAsFloat)))
	if err != nil {
		return QueryRecord{}, false, fmt.Errorf("record query: select existing: %w", err)
	}
	return existing, false, nil
}

// RecordBatch stores a batch statement with its members in order. Each
// member is recorded with RecordQuery semantics in the same transaction.
func (s *Store) RecordBatch(ctx context.Context, statement string, members []QueryRecord) (Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("record batch: begin tx: %w", err)
	}
	defer tx.Rollback()

	batch := Batch{
		ID:        s.ids.Generate(),
		Statement: statement,
		Seq:       s.clock.Next(),
		Members:   make([]QueryRecord, 0, len(members)),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, statement, seq)
		VALUES (?, ?, ?)
	`, batch.ID, batch.Statement, batch.Seq)
	if err != nil {
		return Batch{}, fmt.Errorf("record batch: insert: %w", err)
	}

	for i, m := range members {
		if m.Fingerprint == "" {
			return Batch{}, fmt.Errorf("record batch: member %d: fingerprint is required", i)
		}
		stored, _, err := s.recordQueryTx(ctx, tx, m)
		if err != nil {
			return Batch{}, fmt.Errorf("record batch: member %d: %w", i, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_members (batch_id, position, query_id)
			VALUES (?, ?, ?)
		`, batch.ID, i, stored.ID)
		if err != nil {
			return Batch{}, fmt.Errorf("record batch: member %d: %w", i, err)
		}
		batch.Members = append(batch.Members, stored)
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("record batch: commit: %w", err)
	}

	s.logger.Debug("recorded batch", "id", batch.ID, "members", len(batch.Members), "seq", batch.Seq)
	return batch, nil
}
