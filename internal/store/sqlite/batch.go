package sqlite

import (
	"context"
	"fmt"
)

// Statement is one parameterized SQL statement.
type Statement struct {
	Query string
	Args  []any
}

// Batch collects statements to submit together on one connection.
// Statements run in order without a surrounding transaction: a failure
// stops the batch but earlier statements stay applied.
type Batch struct {
	stmts []Statement
}

// Add appends a statement to the batch.
func (b *Batch) Add(stmt Statement) {
	b.stmts = append(b.stmts, stmt)
}

// Len returns the number of queued statements.
func (b *Batch) Len() int {
	return len(b.stmts)
}

// BatchError reports which statement stopped a batch.
type BatchError struct {
	Index int
	Query string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch statement %d failed: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// ExecBatch runs every statement in b sequentially on a single connection.
// The result sums rows affected across the statements that ran.
func (s *Store) ExecBatch(ctx context.Context, b *Batch) (WriteResult, error) {
	if b == nil || len(b.stmts) == 0 {
		return WriteResult{}, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return WriteResult{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var total WriteResult
	for i, stmt := range b.stmts {
		res, err := conn.ExecContext(ctx, stmt.Query, stmt.Args...)
		if err != nil {
			return total, &BatchError{Index: i, Query: stmt.Query, Err: err}
		}
		wr, err := writeResult(res)
		if err != nil {
			return total, &BatchError{Index: i, Query: stmt.Query, Err: err}
		}
		total.RowsAffected += wr.RowsAffected
	}

	if s.logger != nil {
		s.logger.Debug("batch executed", "statements", len(b.stmts), "rows_affected", total.RowsAffected)
	}
	return total, nil
}
