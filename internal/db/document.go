package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

// SearchDocuments lists up to 50 active documents, newest first, skipping exclude.
func SearchDocuments(ctx context.Context, database *sql.DB, keyword string, docType int, exclude []int64) ([]models.Document, error) {
	var c clause
	c.raw("deleted_at IS NULL")
	c.raw("status = 1")
	c.keyword(keyword, "name")
	if docType > 0 {
		c.add("type = ?", docType)
	}
	if len(exclude) > 0 {
		c.add("id <> ALL(?)", pq.Array(exclude))
	}
	q := `SELECT ` + strings.Join(documentColumns, ", ") + ` FROM ` + tblDocument + c.where() + ` ORDER BY id DESC LIMIT 50`
	rows, err := database.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func GetDocument(ctx context.Context, database *sql.DB, id int64) (*models.Document, error) {
	return Documents.FindByID(ctx, database, id)
}

// DocumentOptions lists active documents by name.
func DocumentOptions(ctx context.Context, database *sql.DB) ([]models.Document, error) {
	q := `SELECT ` + strings.Join(documentColumns, ", ") + ` FROM ` + tblDocument + `
		WHERE deleted_at IS NULL AND status = 1 ORDER BY name`
	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("document options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
