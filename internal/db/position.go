package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

// ListPositions returns active positions by name.
func ListPositions(ctx context.Context, database *sql.DB) ([]models.Position, error) {
	return Positions.FindAll(ctx, database, store.Query{
		Filter:  store.Where("status", 1),
		OrderBy: []store.Order{store.Asc("name")},
	})
}

// SearchPositions matches active positions by name, at most 100.
func SearchPositions(ctx context.Context, database *sql.DB, keyword string) ([]models.Position, error) {
	var c clause
	c.raw("deleted_at IS NULL")
	c.raw("status = 1")
	c.keyword(keyword, "name")
	rows, err := database.QueryContext(ctx, `SELECT `+strings.Join(Positions.Columns, ", ")+
		` FROM `+tblPosition+c.where()+` ORDER BY name LIMIT 100`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("search positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Position{}
	for rows.Next() {
		p, err := Positions.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PositionsWithHierarchy attaches the format each position sits under.
func PositionsWithHierarchy(ctx context.Context, database *sql.DB) ([]models.PositionWithFormat, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT p.id, p.name, p.status, p.created_at, p.updated_at, fp.format_id, COALESCE(f.name, '')
		FROM `+tblPosition+` p
		LEFT JOIN `+tblFormatPosition+` fp ON fp.position_id = p.id AND fp.deleted_at IS NULL
		LEFT JOIN `+tblFormat+` f ON f.id = fp.format_id AND f.deleted_at IS NULL
		WHERE p.deleted_at IS NULL
		ORDER BY f.name, p.name`)
	if err != nil {
		return nil, fmt.Errorf("positions with hierarchy: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.PositionWithFormat{}
	for rows.Next() {
		var p models.PositionWithFormat
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.FormatID, &p.FormatName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
