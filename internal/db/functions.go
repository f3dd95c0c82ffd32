package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

const functionsSelect = `SELECT fn.id, fn.format_id, fn.name, COALESCE(fn.color, ''), fn."order", fn.status,
	fn.created_at, fn.updated_at, COALESCE(f.name, ''),
	(SELECT COUNT(*) FROM ` + tblDepartment + ` d WHERE d.functions_id = fn.id AND d.deleted_at IS NULL)
	FROM ` + tblFunctions + ` fn
	LEFT JOIN ` + tblFormat + ` f ON f.id = fn.format_id`

func queryFunctions(ctx context.Context, database *sql.DB, tail string, args ...any) ([]models.FunctionsWithFormat, error) {
	rows, err := database.QueryContext(ctx, functionsSelect+" "+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query functions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.FunctionsWithFormat{}
	for rows.Next() {
		var f models.FunctionsWithFormat
		f.Functions, err = scanFunctions(rows, &f.FormatName, &f.DepartmentCount)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FunctionsWithFormat lists all live functions grouped by format.
func FunctionsWithFormat(ctx context.Context, database *sql.DB) ([]models.FunctionsWithFormat, error) {
	return queryFunctions(ctx, database, `WHERE fn.deleted_at IS NULL ORDER BY fn.format_id, fn."order", fn.id`)
}

// FunctionsByFormat lists the active functions of one format.
func FunctionsByFormat(ctx context.Context, database *sql.DB, formatID int64) ([]models.Functions, error) {
	return FunctionsTable.FindAll(ctx, database, store.Query{
		Filter:  store.Where("format_id", formatID).And("status", 1),
		OrderBy: []store.Order{store.Asc("order"), store.Asc("name")},
	})
}

// FunctionOptions names each active function "<format> / <function>".
func FunctionOptions(ctx context.Context, database *sql.DB) ([]models.Option, error) {
	return options(ctx, database, `SELECT fn.id, COALESCE(f.name, '') || ' / ' || fn.name
		FROM `+tblFunctions+` fn LEFT JOIN `+tblFormat+` f ON f.id = fn.format_id
		WHERE fn.deleted_at IS NULL AND fn.status = 1
		ORDER BY f."order", f.name, fn."order", fn.name`)
}

func GetFunctions(ctx context.Context, database *sql.DB, id int64) (*models.FunctionsWithFormat, error) {
	list, err := queryFunctions(ctx, database, `WHERE fn.id = $1 AND fn.deleted_at IS NULL`, id)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func FunctionsNameExistsInFormat(ctx context.Context, database *sql.DB, name string, formatID, excludeID int64) (bool, error) {
	return exists(ctx, database, `SELECT COUNT(*) FROM `+tblFunctions+`
		WHERE LOWER(name) = LOWER($1) AND format_id = $2 AND id <> $3 AND deleted_at IS NULL`,
		strings.TrimSpace(name), formatID, excludeID)
}

func CreateFunctions(ctx context.Context, database *sql.DB, v store.Values) (*models.Functions, error) {
	name, _ := v["name"].(string)
	formatID, _ := v["format_id"].(int64)
	taken, err := FunctionsNameExistsInFormat(ctx, database, name, formatID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameExists
	}
	return FunctionsTable.Create(ctx, database, v)
}

func UpdateFunctions(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	name, hasName := v["name"].(string)
	formatID, hasFormat := v["format_id"].(int64)
	if hasName && hasFormat {
		taken, err := FunctionsNameExistsInFormat(ctx, database, name, formatID, id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, ErrNameExists
		}
	}
	return FunctionsTable.Update(ctx, database, id, v)
}

func DeleteFunctions(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return FunctionsTable.Delete(ctx, database, id)
}
