package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

// ActiveFormats returns status=1 formats in display order.
func ActiveFormats(ctx context.Context, database *sql.DB) ([]models.Format, error) {
	return Formats.FindAll(ctx, database, store.Query{
		Filter:  store.Where("status", 1),
		OrderBy: []store.Order{store.Asc("order"), store.Asc("id")},
	})
}

func FormatOptions(ctx context.Context, database *sql.DB) ([]models.Option, error) {
	return options(ctx, database, `SELECT id, name FROM `+tblFormat+`
		WHERE deleted_at IS NULL AND status = 1 ORDER BY "order", name`)
}

// FormatNames feeds the user filter; it includes inactive formats.
func FormatNames(ctx context.Context, database *sql.DB) ([]models.Option, error) {
	return options(ctx, database, `SELECT id, name FROM `+tblFormat+` WHERE deleted_at IS NULL ORDER BY name`)
}

// FormatsWithFunctionsCount lists every live format with its live functions count.
func FormatsWithFunctionsCount(ctx context.Context, database *sql.DB) ([]models.FormatWithCount, error) {
	rows, err := database.QueryContext(ctx, `SELECT `+strings.Join(Formats.Columns, ", ")+`,
		(SELECT COUNT(*) FROM `+tblFunctions+` fn WHERE fn.format_id = format.id AND fn.deleted_at IS NULL)
		FROM `+tblFormat+` WHERE deleted_at IS NULL ORDER BY "order", id`)
	if err != nil {
		return nil, fmt.Errorf("formats with count: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.FormatWithCount{}
	for rows.Next() {
		var f models.FormatWithCount
		f.Format, err = scanFormat(rows, &f.FunctionsCount)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func GetFormat(ctx context.Context, database *sql.DB, id int64) (*models.Format, error) {
	return Formats.FindByID(ctx, database, id)
}

// FormatNameExists compares names case-insensitively among live formats.
func FormatNameExists(ctx context.Context, database *sql.DB, name string, excludeID int64) (bool, error) {
	return exists(ctx, database, `SELECT COUNT(*) FROM `+tblFormat+`
		WHERE LOWER(name) = LOWER($1) AND id <> $2 AND deleted_at IS NULL`, strings.TrimSpace(name), excludeID)
}

func CreateFormat(ctx context.Context, database *sql.DB, v store.Values) (*models.Format, error) {
	name, _ := v["name"].(string)
	taken, err := FormatNameExists(ctx, database, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameExists
	}
	return Formats.Create(ctx, database, v)
}

func UpdateFormat(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	if name, ok := v["name"].(string); ok {
		taken, err := FormatNameExists(ctx, database, name, id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, ErrNameExists
		}
	}
	return Formats.Update(ctx, database, id, v)
}

func DeleteFormat(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Formats.Delete(ctx, database, id)
}

func options(ctx context.Context, q store.Queryer, sqlText string, args ...any) ([]models.Option, error) {
	rows, err := q.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Option{}
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func exists(ctx context.Context, q store.Queryer, sqlText string, args ...any) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, sqlText, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return n > 0, nil
}
