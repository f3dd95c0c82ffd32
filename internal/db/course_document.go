package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

// LinkedDocuments returns a course's live document links in display order.
func LinkedDocuments(ctx context.Context, q store.Queryer, courseID int64) ([]models.LinkedDocument, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT cd.id, cd.course_id, cd.document_id, cd."order", cd.status, cd.created_at, cd.updated_at,
		       d.name, d.type, d.is_new
		FROM `+tblCourseDocument+` cd
		JOIN `+tblDocument+` d ON d.id = cd.document_id AND d.deleted_at IS NULL
		WHERE cd.course_id = $1 AND cd.deleted_at IS NULL
		ORDER BY cd."order", cd.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("linked documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.LinkedDocument{}
	for rows.Next() {
		var ld models.LinkedDocument
		if err := rows.Scan(&ld.ID, &ld.CourseID, &ld.DocumentID, &ld.Order, &ld.Status,
			&ld.CreatedAt, &ld.UpdatedAt, &ld.Name, &ld.Type, &ld.IsNew); err != nil {
			return nil, err
		}
		ld.TypeLabel = ld.Type.Label()
		ld.TypeIcon = ld.Type.Icon()
		out = append(out, ld)
	}
	return out, rows.Err()
}

func LinkedDocumentIDs(ctx context.Context, q store.Queryer, courseID int64) ([]int64, error) {
	links, err := CourseDocuments.FindAll(ctx, q, store.Query{Filter: store.Where("course_id", courseID)})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.DocumentID
	}
	return ids, nil
}

// AddCourseDocument links a document at the end of the list. An existing live
// link is returned unchanged.
func AddCourseDocument(ctx context.Context, q store.Queryer, courseID, documentID int64) (*models.CourseDocument, error) {
	existing, err := CourseDocuments.FindOne(ctx, q,
		store.Where("course_id", courseID).And("document_id", documentID))
	if err != nil || existing != nil {
		return existing, err
	}
	return CourseDocuments.Create(ctx, q, store.Values{
		"course_id": courseID, "document_id": documentID, "order": 999, "status": 1,
	})
}

func RemoveCourseDocument(ctx context.Context, q store.Queryer, courseID, documentID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `UPDATE `+tblCourseDocument+`
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE course_id = $1 AND document_id = $2 AND deleted_at IS NULL`, courseID, documentID)
	if err != nil {
		return false, fmt.Errorf("remove course document: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ReorderCourseDocuments sets order = position+1 for each document id, in one transaction.
func ReorderCourseDocuments(ctx context.Context, database *sql.DB, courseID int64, documentIDs []int64) error {
	return store.InTx(ctx, database, func(tx *sql.Tx) error {
		for i, docID := range documentIDs {
			if _, err := tx.ExecContext(ctx, `UPDATE `+tblCourseDocument+`
				SET "order" = $1, updated_at = NOW()
				WHERE course_id = $2 AND document_id = $3 AND deleted_at IS NULL`,
				i+1, courseID, docID); err != nil {
				return fmt.Errorf("reorder course document %d: %w", docID, err)
			}
		}
		return nil
	})
}

func CountCourseDocuments(ctx context.Context, q store.Queryer, courseID int64) (int64, error) {
	return CourseDocuments.Count(ctx, q, store.Where("course_id", courseID))
}
