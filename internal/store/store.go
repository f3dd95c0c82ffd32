// Package store is a table-scoped record accessor: find, create, partial
// update, soft delete, restore and count over a single table.
//
// A Table describes which columns may appear in filters, orderings and
// writes; anything else is rejected with ErrUnknownColumn before SQL is built.
// Every method takes a Queryer so the same descriptor runs on *sql.DB or
// inside a *sql.Tx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnknownColumn         = errors.New("store: unknown column")
	ErrSoftDeleteUnsupported = errors.New("store: restore is only available for soft-delete tables")
	ErrEmptyValues           = errors.New("store: no values to write")
	ErrNotFound              = errors.New("store: record not found")
)

// Queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Scanner interface {
	Scan(dest ...any) error
}

type Table[T any] struct {
	// Name is schema-qualified and already quoted where needed, e.g. `tesco_elearning."user"`.
	Name string
	// Columns is the select list in Scan order. Entries are SQL expressions,
	// so reserved names must arrive quoted and COALESCE is allowed.
	Columns []string
	// Fields may be filtered on, ordered by and written.
	Fields     []string
	SoftDelete bool
	Scan       func(Scanner) (T, error)
}

const (
	colID        = "id"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
	colDeletedAt = "deleted_at"
)

func (t *Table[T]) isAllowed(col string) bool {
	switch col {
	case colID, colCreatedAt, colUpdatedAt:
		return true
	}
	return slices.Contains(t.Fields, col)
}

func (t *Table[T]) checkColumns(cols ...string) error {
	for _, c := range cols {
		if !t.isAllowed(c) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, c)
		}
	}
	return nil
}

// Filter is a conjunction of exact-match conditions. A nil value renders as IS NULL.
type Filter struct {
	conds []cond
}

type cond struct {
	col string
	val any
}

func Where(col string, val any) Filter { return Filter{}.And(col, val) }

func (f Filter) And(col string, val any) Filter {
	conds := make([]cond, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filter{conds: append(conds, cond{col: col, val: val})}
}

func (f Filter) columns() []string {
	out := make([]string, len(f.conds))
	for i, c := range f.conds {
		out[i] = c.col
	}
	return out
}

type Order struct {
	Col  string
	Desc bool
}

func Asc(col string) Order  { return Order{Col: col} }
func Desc(col string) Order { return Order{Col: col, Desc: true} }

type Query struct {
	Filter         Filter
	OrderBy        []Order // defaults to id ASC
	Limit          int     // 0 means no limit
	Offset         int
	IncludeDeleted bool
}

// Values are column assignments for Create and Update.
type Values map[string]any

func (v Values) sortedKeys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quote(col string) string { return `"` + col + `"` }

// whereSQL renders the filter plus the soft-delete guard starting at $start.
func (t *Table[T]) whereSQL(f Filter, includeDeleted bool, start int) (string, []any) {
	var parts []string
	var args []any
	if t.SoftDelete && !includeDeleted {
		parts = append(parts, colDeletedAt+" IS NULL")
	}
	idx := start
	for _, c := range f.conds {
		if c.val == nil {
			parts = append(parts, quote(c.col)+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", quote(c.col), idx))
		args = append(args, c.val)
		idx++
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (t *Table[T]) selectList() string { return strings.Join(t.Columns, ", ") }

func (t *Table[T]) buildFindAll(q Query) (string, []any, error) {
	if err := t.checkColumns(q.Filter.columns()...); err != nil {
		return "", nil, err
	}
	order := q.OrderBy
	if len(order) == 0 {
		order = []Order{Asc(colID)}
	}
	orderParts := make([]string, len(order))
	for i, o := range order {
		if err := t.checkColumns(o.Col); err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		orderParts[i] = quote(o.Col) + " " + dir
	}

	where, args := t.whereSQL(q.Filter, q.IncludeDeleted, 1)
	sqlText := "SELECT " + t.selectList() + " FROM " + t.Name + where + " ORDER BY " + strings.Join(orderParts, ", ")
	if q.Limit > 0 {
		sqlText += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			sqlText += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	}
	return sqlText, args, nil
}

func (t *Table[T]) FindAll(ctx context.Context, db Queryer, q Query) ([]T, error) {
	sqlText, args, err := t.buildFindAll(q)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("%s find all: %w", t.Name, err)
	}
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		rec, err := t.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FindByID returns nil, nil when the row is missing or soft-deleted.
func (t *Table[T]) FindByID(ctx context.Context, db Queryer, id int64) (*T, error) {
	sqlText := "SELECT " + t.selectList() + " FROM " + t.Name + " WHERE id = $1"
	if t.SoftDelete {
		sqlText += " AND " + colDeletedAt + " IS NULL"
	}
	rec, err := t.Scan(db.QueryRowContext(ctx, sqlText, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s find %d: %w", t.Name, id, err)
	}
	return &rec, nil
}

func (t *Table[T]) FindOne(ctx context.Context, db Queryer, f Filter) (*T, error) {
	recs, err := t.FindAll(ctx, db, Query{Filter: f, Limit: 1})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}

func (t *Table[T]) buildInsert(v Values, now time.Time) (string, []any, error) {
	if len(v) == 0 {
		return "", nil, ErrEmptyValues
	}
	keys := v.sortedKeys()
	if err := t.checkColumns(keys...); err != nil {
		return "", nil, err
	}
	cols := make([]string, 0, len(keys)+2)
	args := make([]any, 0, len(keys)+2)
	for _, k := range keys {
		if k == colID {
			continue
		}
		cols = append(cols, k)
		args = append(args, v[k])
	}
	// timestamps are stamped unless the caller supplied them
	if _, ok := v[colCreatedAt]; !ok {
		cols = append(cols, colCreatedAt)
		args = append(args, now)
	}
	if _, ok := v[colUpdatedAt]; !ok {
		cols = append(cols, colUpdatedAt)
		args = append(args, now)
	}
	quoted := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	sqlText := "INSERT INTO " + t.Name + " (" + strings.Join(quoted, ", ") + ") VALUES (" +
		strings.Join(ph, ", ") + ") RETURNING id"
	return sqlText, args, nil
}

// Create inserts v and returns the stored record.
func (t *Table[T]) Create(ctx context.Context, db Queryer, v Values) (*T, error) {
	id, err := t.Insert(ctx, db, v)
	if err != nil {
		return nil, err
	}
	rec, err := t.FindByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s create %d: %w", t.Name, id, ErrNotFound)
	}
	return rec, nil
}

// Insert is Create without the read-back.
func (t *Table[T]) Insert(ctx context.Context, db Queryer, v Values) (int64, error) {
	sqlText, args, err := t.buildInsert(v, time.Now())
	if err != nil {
		return 0, err
	}
	var id int64
	if err := db.QueryRowContext(ctx, sqlText, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s insert: %w", t.Name, err)
	}
	return id, nil
}

func (t *Table[T]) buildUpdate(id int64, v Values, now time.Time) (string, []any, error) {
	if len(v) == 0 {
		return "", nil, ErrEmptyValues
	}
	keys := v.sortedKeys()
	if err := t.checkColumns(keys...); err != nil {
		return "", nil, err
	}
	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	idx := 1
	for _, k := range keys {
		if k == colID || k == colUpdatedAt {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(k), idx))
		args = append(args, v[k])
		idx++
	}
	sets = append(sets, fmt.Sprintf("%s = $%d", colUpdatedAt, idx))
	args = append(args, now)
	idx++
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", t.Name, strings.Join(sets, ", "), idx), args, nil
}

// Update writes only the supplied columns and reports whether a row changed.
func (t *Table[T]) Update(ctx context.Context, db Queryer, id int64, v Values) (bool, error) {
	sqlText, args, err := t.buildUpdate(id, v, time.Now())
	if err != nil {
		return false, err
	}
	return t.exec(ctx, db, "update", sqlText, args...)
}

// Delete soft-deletes, or hard-deletes when the table has no deleted_at.
func (t *Table[T]) Delete(ctx context.Context, db Queryer, id int64) (bool, error) {
	if !t.SoftDelete {
		return t.exec(ctx, db, "delete", "DELETE FROM "+t.Name+" WHERE id = $1", id)
	}
	return t.exec(ctx, db, "delete",
		"UPDATE "+t.Name+" SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
}

func (t *Table[T]) Restore(ctx context.Context, db Queryer, id int64) (bool, error) {
	if !t.SoftDelete {
		return false, ErrSoftDeleteUnsupported
	}
	return t.exec(ctx, db, "restore",
		"UPDATE "+t.Name+" SET deleted_at = NULL, updated_at = NOW() WHERE id = $1", id)
}

func (t *Table[T]) Count(ctx context.Context, db Queryer, f Filter) (int64, error) {
	if err := t.checkColumns(f.columns()...); err != nil {
		return 0, err
	}
	where, args := t.whereSQL(f, false, 1)
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s count: %w", t.Name, err)
	}
	return n, nil
}

func (t *Table[T]) exec(ctx context.Context, db Queryer, op, sqlText string, args ...any) (bool, error) {
	res, err := db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", t.Name, op, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
