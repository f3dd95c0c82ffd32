package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64
	Name string
}

func widgetTable(soft bool) *Table[widget] {
	return &Table[widget]{
		Name:       "lms.widget",
		Columns:    []string{"id", "name"},
		Fields:     []string{"name", "status", "order"},
		SoftDelete: soft,
		Scan: func(s Scanner) (widget, error) {
			var w widget
			err := s.Scan(&w.ID, &w.Name)
			return w, err
		},
	}
}

func TestBuildFindAll_DefaultsAndSoftDelete(t *testing.T) {
	tbl := widgetTable(true)
	sqlText, args, err := tbl.buildFindAll(Query{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT id, name FROM lms.widget WHERE deleted_at IS NULL ORDER BY "id" ASC`, sqlText)
	assert.Empty(t, args)

	sqlText, _, err = tbl.buildFindAll(Query{IncludeDeleted: true})
	require.NoError(t, err)
	assert.NotContains(t, sqlText, "deleted_at")
}

func TestBuildFindAll_FilterOrderLimit(t *testing.T) {
	tbl := widgetTable(true)
	q := Query{
		Filter:  Where("status", 1).And("name", nil).And("order", 3),
		OrderBy: []Order{Asc("order"), Desc("id")},
		Limit:   10,
		Offset:  20,
	}
	sqlText, args, err := tbl.buildFindAll(q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT id, name FROM lms.widget WHERE deleted_at IS NULL AND "status" = $1 AND "name" IS NULL AND "order" = $2 ORDER BY "order" ASC, "id" DESC LIMIT 10 OFFSET 20`,
		sqlText)
	assert.Equal(t, []any{1, 3}, args)
}

func TestBuildFindAll_UnknownColumn(t *testing.T) {
	tbl := widgetTable(false)
	_, _, err := tbl.buildFindAll(Query{Filter: Where("password", "x")})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, _, err = tbl.buildFindAll(Query{OrderBy: []Order{Asc("name; DROP TABLE x")}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFilterAnd_DoesNotAlias(t *testing.T) {
	base := Where("status", 1)
	a := base.And("name", "a")
	b := base.And("name", "b")
	assert.Equal(t, "a", a.conds[1].val)
	assert.Equal(t, "b", b.conds[1].val)
	assert.Len(t, base.conds, 1)
}

func TestBuildInsert_StampsTimestamps(t *testing.T) {
	tbl := widgetTable(true)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	sqlText, args, err := tbl.buildInsert(Values{"status": 1, "name": "w", "id": 99}, now)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO lms.widget ("name", "status", "created_at", "updated_at") VALUES ($1, $2, $3, $4) RETURNING id`,
		sqlText)
	assert.Equal(t, []any{"w", 1, now, now}, args)

	supplied := now.Add(-time.Hour)
	_, args, err = tbl.buildInsert(Values{"name": "w", "created_at": supplied}, now)
	require.NoError(t, err)
	assert.Equal(t, []any{supplied, "w", now}, args)
}

func TestBuildInsert_Rejects(t *testing.T) {
	tbl := widgetTable(true)
	_, _, err := tbl.buildInsert(Values{}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyValues)
	_, _, err = tbl.buildInsert(Values{"bogus": 1}, time.Now())
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestBuildUpdate(t *testing.T) {
	tbl := widgetTable(true)
	now := time.Now()
	sqlText, args, err := tbl.buildUpdate(7, Values{"status": 0, "name": "n", "updated_at": "ignored"}, now)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE lms.widget SET "name" = $1, "status" = $2, updated_at = $3 WHERE id = $4`, sqlText)
	assert.Equal(t, []any{"n", 0, now, int64(7)}, args)
}

func TestRestore_HardDeleteTable(t *testing.T) {
	tbl := widgetTable(false)
	ok, err := tbl.Restore(t.Context(), nil, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrSoftDeleteUnsupported)
}
