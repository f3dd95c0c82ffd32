package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

func GetAbcd(ctx context.Context, q store.Queryer, id int64) (*models.QuestionAbcd, error) {
	return QuestionsAbcd.FindByID(ctx, q, id)
}

// AbcdByQuiz lists a quiz's ABCD questions in link order.
func AbcdByQuiz(ctx context.Context, q store.Queryer, quizID int64) ([]models.AbcdWithOrder, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+prefixed("a", abcdColumns)+`, qs.id, qs."order"
		FROM `+tblQuestionAbcd+` a
		JOIN `+tblQuestion+` qs ON qs.question_id = a.id AND qs.type = 1 AND qs.deleted_at IS NULL
		WHERE a.quiz_id = $1 AND a.deleted_at IS NULL
		ORDER BY qs."order", a.id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("abcd by quiz: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.AbcdWithOrder{}
	for rows.Next() {
		var item models.AbcdWithOrder
		item.QuestionAbcd, err = scanAbcd(rows, &item.LinkID, &item.SortOrder)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// CreateAbcd inserts the detail row and its type-1 question link together.
func CreateAbcd(ctx context.Context, database *sql.DB, quizID int64, v store.Values) (*models.QuestionAbcd, error) {
	v = pick(v, AbcdFields)
	setDefault(v, "order", 9999)
	setDefault(v, "media_type", 1)
	setDefault(v, "weight", 1)
	setDefault(v, "is_random", 0)
	for _, k := range []string{"title", "answer_a", "answer_b", "answer_c", "answer_d"} {
		setDefault(v, k, "")
	}
	for _, k := range []string{"answer_a_correct", "answer_b_correct", "answer_c_correct", "answer_d_correct"} {
		setDefault(v, k, 0)
	}
	v["quiz_id"] = quizID
	v["status"] = 1

	var out *models.QuestionAbcd
	err := store.InTx(ctx, database, func(tx *sql.Tx) error {
		id, err := QuestionsAbcd.Insert(ctx, tx, v)
		if err != nil {
			return err
		}
		if _, err := Questions.Insert(ctx, tx, store.Values{
			"quiz_id": quizID, "question_id": id, "type": int(models.QuestionABCD),
			"order": v["order"], "status": 1,
		}); err != nil {
			return err
		}
		out, err = QuestionsAbcd.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAbcd ignores columns outside AbcdFields. A new order is mirrored onto the link row.
func UpdateAbcd(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	v = pick(v, AbcdFields)
	if len(v) == 0 {
		return false, nil
	}
	var changed bool
	err := store.InTx(ctx, database, func(tx *sql.Tx) error {
		var err error
		changed, err = QuestionsAbcd.Update(ctx, tx, id, v)
		if err != nil || !changed {
			return err
		}
		if order, ok := v["order"]; ok {
			if _, err := tx.ExecContext(ctx, `UPDATE `+tblQuestion+` SET "order" = $1, updated_at = NOW()
				WHERE question_id = $2 AND type = 1 AND deleted_at IS NULL`, order, id); err != nil {
				return fmt.Errorf("sync question order: %w", err)
			}
		}
		return nil
	})
	return changed, err
}

// DeleteAbcd soft-deletes the detail row and every link pointing at it.
func DeleteAbcd(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	var deleted bool
	err := store.InTx(ctx, database, func(tx *sql.Tx) error {
		var err error
		deleted, err = QuestionsAbcd.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE `+tblQuestion+` SET deleted_at = NOW(), updated_at = NOW()
			WHERE question_id = $1 AND type = 1 AND deleted_at IS NULL`, id)
		return err
	})
	return deleted, err
}
