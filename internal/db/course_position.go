package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

// CoursePositionList returns the live position links of a course by position name.
func CoursePositionList(ctx context.Context, q store.Queryer, courseID int64) ([]models.CoursePosition, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT cp.id, cp.course_id, cp.position_id, cp.status, p.name, cp.created_at, cp.updated_at
		FROM `+tblCoursePosition+` cp
		JOIN `+tblPosition+` p ON p.id = cp.position_id AND p.deleted_at IS NULL
		WHERE cp.course_id = $1 AND cp.deleted_at IS NULL
		ORDER BY p.name`, courseID)
	if err != nil {
		return nil, fmt.Errorf("course positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.CoursePosition{}
	for rows.Next() {
		cp, err := scanCoursePosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func CoursePositionIDs(ctx context.Context, q store.Queryer, courseID int64) ([]int64, error) {
	links, err := CoursePositions.FindAll(ctx, q, store.Query{Filter: store.Where("course_id", courseID)})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.PositionID
	}
	return ids, nil
}

func AddCoursePosition(ctx context.Context, q store.Queryer, courseID, positionID int64) (*models.CoursePosition, error) {
	existing, err := CoursePositions.FindOne(ctx, q,
		store.Where("course_id", courseID).And("position_id", positionID))
	if err != nil || existing != nil {
		return existing, err
	}
	return CoursePositions.Create(ctx, q, store.Values{"course_id": courseID, "position_id": positionID, "status": 1})
}

func RemoveCoursePosition(ctx context.Context, q store.Queryer, courseID, positionID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `UPDATE `+tblCoursePosition+`
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE course_id = $1 AND position_id = $2 AND deleted_at IS NULL`, courseID, positionID)
	if err != nil {
		return false, fmt.Errorf("remove course position: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func CountCoursePositions(ctx context.Context, q store.Queryer, courseID int64) (int64, error) {
	return CoursePositions.Count(ctx, q, store.Where("course_id", courseID))
}

// SyncCoursePositions makes the live links of a course equal to positionIDs.
func SyncCoursePositions(ctx context.Context, database *sql.DB, courseID int64, positionIDs []int64) error {
	if positionIDs == nil {
		positionIDs = []int64{} // a nil pq.Array binds NULL and would match nothing
	}
	return store.InTx(ctx, database, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE `+tblCoursePosition+`
			SET deleted_at = NOW(), updated_at = NOW()
			WHERE course_id = $1 AND deleted_at IS NULL AND position_id <> ALL($2)`,
			courseID, pq.Array(positionIDs)); err != nil {
			return fmt.Errorf("unlink positions: %w", err)
		}
		current, err := CoursePositionIDs(ctx, tx, courseID)
		if err != nil {
			return err
		}
		have := make(map[int64]struct{}, len(current))
		for _, id := range current {
			have[id] = struct{}{}
		}
		for _, id := range positionIDs {
			if _, ok := have[id]; ok {
				continue
			}
			if _, err := CoursePositions.Insert(ctx, tx, store.Values{
				"course_id": courseID, "position_id": id, "status": 1,
			}); err != nil {
				return err
			}
			have[id] = struct{}{}
		}
		return nil
	})
}
