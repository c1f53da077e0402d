package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tripframe/tripframe-server/internal/store"
)

// Schema describes how an entity maps onto a table.
type Schema[T any] struct {
	Table string
	// Key is the single-column primary key. Tables keyed by a column pair
	// leave it empty and are only reachable through filters.
	Key string
	// Columns are selected in this order and handed to Decode.
	Columns []string
	Decode  func(Record) (*T, error)
}

// WriteResult reports the outcome of a write.
type WriteResult struct {
	RowsAffected int64
}

// Conflict selects the INSERT conflict clause.
type Conflict uint8

// Conflict clauses.
const (
	ConflictFail Conflict = iota
	ConflictIgnore
)

// Table is the generic CRUD service for one table.
type Table[T any] struct {
	store  *Store
	schema Schema[T]
	cols   string
}

// NewTable creates a table service for schema.
func NewTable[T any](s *Store, schema Schema[T]) *Table[T] {
	quoted := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		quoted[i] = quoteIdent(c)
	}
	return &Table[T]{
		store:  s,
		schema: schema,
		cols:   strings.Join(quoted, ", "),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.schema.Table
}

// GetAll returns every row matching all columns in filter.
// A nil or empty filter scans the whole table.
func (t *Table[T]) GetAll(ctx context.Context, filter Row) ([]*T, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + t.cols + ` FROM ` + quoteIdent(t.schema.Table) + where + ` ORDER BY ` + t.orderBy()

	return t.query(ctx, query, args...)
}

// GetIn returns every row whose col is one of values, in table order.
// An empty values list matches nothing and skips the query.
func (t *Table[T]) GetIn(ctx context.Context, col string, values []string) ([]*T, error) {
	if len(values) == 0 {
		return []*T{}, nil
	}

	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = v
	}
	query := `SELECT ` + t.cols + ` FROM ` + quoteIdent(t.schema.Table) +
		` WHERE ` + quoteIdent(col) + ` IN (` + strings.Join(marks, ", ") + `) ORDER BY ` + t.orderBy()

	return t.query(ctx, query, args...)
}

// GetByID returns the row whose key equals id.
// Returns store.ErrNotFound if no row matches.
func (t *Table[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if t.schema.Key == "" {
		return nil, store.ErrInvalidInput.WithMessage(t.schema.Table + " has no single-column key")
	}

	query := `SELECT ` + t.cols + ` FROM ` + quoteIdent(t.schema.Table) + ` WHERE ` + quoteIdent(t.schema.Key) + ` = ?`
	rows, err := t.store.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.schema.Table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows iteration: %w", err)
		}
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("%s %q not found", t.schema.Table, id))
	}

	rec, err := t.scan(rows)
	if err != nil {
		return nil, err
	}
	entity, err := t.schema.Decode(rec)
	if err != nil {
		return nil, fmt.Errorf("decode %s row: %w", t.schema.Table, err)
	}
	return entity, nil
}

// Create inserts row. Columns absent from row are left to their defaults.
// Returns store.ErrInvalidInput for an empty row and store.ErrAlreadyExists
// on a key clash.
func (t *Table[T]) Create(ctx context.Context, row Row) (WriteResult, error) {
	stmt, err := t.InsertStatement(row, ConflictFail)
	if err != nil {
		return WriteResult{}, err
	}

	res, err := t.store.db.ExecContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		if isUniqueViolation(err) {
			return WriteResult{}, store.ErrAlreadyExists.WithCause(err)
		}
		return WriteResult{}, fmt.Errorf("insert into %s: %w", t.schema.Table, err)
	}
	return writeResult(res)
}

// InsertStatement builds the INSERT for row without executing it, so
// callers can submit several inserts together in a Batch.
func (t *Table[T]) InsertStatement(row Row, conflict Conflict) (Statement, error) {
	if len(row) == 0 {
		return Statement{}, store.ErrInvalidInput.WithMessage("insert into " + t.schema.Table + ": no columns to write")
	}

	cols := row.Columns()
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c)
		marks[i] = "?"
		args[i] = row[c].Arg()
	}

	verb := "INSERT"
	if conflict == ConflictIgnore {
		verb = "INSERT OR IGNORE"
	}

	return Statement{
		Query: verb + ` INTO ` + quoteIdent(t.schema.Table) + ` (` + strings.Join(names, ", ") + `) VALUES (` + strings.Join(marks, ", ") + `)`,
		Args:  args,
	}, nil
}

// Update writes the columns in row to the row keyed by id.
// Returns store.ErrNotFound when no row has that key.
func (t *Table[T]) Update(ctx context.Context, id string, row Row) (WriteResult, error) {
	if t.schema.Key == "" {
		return WriteResult{}, store.ErrInvalidInput.WithMessage(t.schema.Table + " has no single-column key")
	}
	if len(row) == 0 {
		return WriteResult{}, store.ErrInvalidInput.WithMessage("update " + t.schema.Table + ": no columns to write")
	}
	if _, ok := row[t.schema.Key]; ok {
		return WriteResult{}, store.ErrInvalidInput.WithMessage("update " + t.schema.Table + ": key column cannot change")
	}

	cols := row.Columns()
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = quoteIdent(c) + ` = ?`
		args = append(args, row[c].Arg())
	}
	args = append(args, id)

	query := `UPDATE ` + quoteIdent(t.schema.Table) + ` SET ` + strings.Join(sets, ", ") + ` WHERE ` + quoteIdent(t.schema.Key) + ` = ?`
	res, err := t.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return WriteResult{}, fmt.Errorf("update %s: %w", t.schema.Table, err)
	}
	return requireAffected(res, t.schema.Table, id)
}

// Delete removes the row keyed by id.
// Returns store.ErrNotFound when no row has that key.
func (t *Table[T]) Delete(ctx context.Context, id string) (WriteResult, error) {
	if t.schema.Key == "" {
		return WriteResult{}, store.ErrInvalidInput.WithMessage(t.schema.Table + " has no single-column key")
	}

	query := `DELETE FROM ` + quoteIdent(t.schema.Table) + ` WHERE ` + quoteIdent(t.schema.Key) + ` = ?`
	res, err := t.store.db.ExecContext(ctx, query, id)
	if err != nil {
		return WriteResult{}, fmt.Errorf("delete from %s: %w", t.schema.Table, err)
	}
	return requireAffected(res, t.schema.Table, id)
}

// DeleteStatement builds a filtered DELETE without executing it.
// An empty filter is rejected rather than turned into a full-table delete.
func (t *Table[T]) DeleteStatement(filter Row) (Statement, error) {
	if len(filter) == 0 {
		return Statement{}, store.ErrInvalidInput.WithMessage("delete from " + t.schema.Table + ": filter required")
	}
	where, args := whereClause(filter)
	return Statement{
		Query: `DELETE FROM ` + quoteIdent(t.schema.Table) + where,
		Args:  args,
	}, nil
}

// DeleteWhere removes every row matching filter. Matching nothing is not an error.
func (t *Table[T]) DeleteWhere(ctx context.Context, filter Row) (WriteResult, error) {
	stmt, err := t.DeleteStatement(filter)
	if err != nil {
		return WriteResult{}, err
	}

	res, err := t.store.db.ExecContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return WriteResult{}, fmt.Errorf("delete from %s: %w", t.schema.Table, err)
	}
	return writeResult(res)
}

func (t *Table[T]) query(ctx context.Context, query string, args ...any) ([]*T, error) {
	rows, err := t.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.schema.Table, err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		entity, err := t.schema.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s row: %w", t.schema.Table, err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (t *Table[T]) orderBy() string {
	if t.schema.Key != "" {
		return quoteIdent(t.schema.Key)
	}
	return "rowid"
}

func (t *Table[T]) scan(rows *sql.Rows) (Record, error) {
	vals := make([]any, len(t.schema.Columns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.schema.Table, err)
	}

	rec := make(Record, len(vals))
	for i, c := range t.schema.Columns {
		rec[c] = vals[i]
	}
	return rec, nil
}

// whereClause builds " WHERE a = ? AND b = ?" from filter, or "" when empty.
func whereClause(filter Row) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	cols := filter.Columns()
	parts := make([]string, len(cols))
	args := make([]any, 0, len(cols))
	for i, c := range cols {
		v := filter[c]
		if v.Kind() == KindNull {
			parts[i] = quoteIdent(c) + ` IS NULL`
			continue
		}
		parts[i] = quoteIdent(c) + ` = ?`
		args = append(args, v.Arg())
	}
	return ` WHERE ` + strings.Join(parts, ` AND `), args
}

func writeResult(res sql.Result) (WriteResult, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return WriteResult{}, fmt.Errorf("rows affected: %w", err)
	}
	return WriteResult{RowsAffected: n}, nil
}

func requireAffected(res sql.Result, table, id string) (WriteResult, error) {
	wr, err := writeResult(res)
	if err != nil {
		return WriteResult{}, err
	}
	if wr.RowsAffected == 0 {
		return wr, store.ErrNotFound.WithMessage(fmt.Sprintf("%s %q not found", table, id))
	}
	return wr, nil
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
