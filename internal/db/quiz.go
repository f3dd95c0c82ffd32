package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

type QuizFilter struct {
	Keyword   string
	CourseID  *int64
	IsPublish *int
}

const quizExtras = `,
	COALESCE((SELECT c.name FROM ` + tblCourse + ` c WHERE c.id = quiz.course_id), ''),
	(SELECT COUNT(*) FROM ` + tblQuestion + ` qs WHERE qs.quiz_id = quiz.id AND qs.deleted_at IS NULL)`

// ListQuizzes returns one page of quizzes, most recently updated first.
func ListQuizzes(ctx context.Context, database *sql.DB, f QuizFilter, p pagination.Params) (pagination.Page[models.QuizListItem], error) {
	var c clause
	c.raw("deleted_at IS NULL")
	c.keyword(f.Keyword, "title", "description")
	if f.CourseID != nil {
		c.add("course_id = ?", *f.CourseID)
	}
	if f.IsPublish != nil {
		c.add("is_publish = ?", *f.IsPublish)
	}

	var total int64
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tblQuiz+c.where(), c.args...).Scan(&total); err != nil {
		return pagination.Page[models.QuizListItem]{}, fmt.Errorf("count quizzes: %w", err)
	}
	q := `SELECT ` + strings.Join(quizColumns, ", ") + quizExtras + ` FROM ` + tblQuiz + c.where() +
		fmt.Sprintf(` ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d`, c.next(), c.next()+1)
	rows, err := database.QueryContext(ctx, q, append(c.args, p.Limit(), p.Offset())...)
	if err != nil {
		return pagination.Page[models.QuizListItem]{}, fmt.Errorf("list quizzes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.QuizListItem
	for rows.Next() {
		var item models.QuizListItem
		item.Quiz, err = scanQuiz(rows, &item.CourseName, &item.QuestionCount)
		if err != nil {
			return pagination.Page[models.QuizListItem]{}, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[models.QuizListItem]{}, err
	}
	return pagination.NewPage(out, total, p), nil
}

// GetQuiz loads a quiz with its course name; questions are not loaded.
func GetQuiz(ctx context.Context, q store.Queryer, id int64) (*models.QuizDetail, error) {
	var d models.QuizDetail
	var count int64
	row := q.QueryRowContext(ctx, `SELECT `+strings.Join(quizColumns, ", ")+quizExtras+
		` FROM `+tblQuiz+` WHERE id = $1 AND deleted_at IS NULL`, id)
	quiz, err := scanQuiz(row, &d.CourseName, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quiz %d: %w", id, err)
	}
	d.Quiz = quiz
	d.Questions = []models.QuestionEntry{}
	return &d, nil
}

// GetQuizWithQuestions also loads every live question in order, with the ABCD detail rows.
func GetQuizWithQuestions(ctx context.Context, database *sql.DB, id int64) (*models.QuizDetail, error) {
	d, err := GetQuiz(ctx, database, id)
	if err != nil || d == nil {
		return d, err
	}
	d.Questions, err = QuizQuestions(ctx, database, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func QuizQuestions(ctx context.Context, q store.Queryer, quizID int64) ([]models.QuestionEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT q.id, q.quiz_id, q.question_id, q.type, q."order", q.status, q.created_at, q.updated_at,
		       COALESCE(CASE q.type
		           WHEN 1 THEN qa.title WHEN 2 THEN yn.title WHEN 3 THEN wr.title
		           WHEN 4 THEN mt.title WHEN 5 THEN mp.title END, '')
		FROM `+tblQuestion+` q
		LEFT JOIN `+tblQuestionAbcd+` qa ON q.type = 1 AND qa.id = q.question_id
		LEFT JOIN tesco_elearning.question_yn yn ON q.type = 2 AND yn.id = q.question_id
		LEFT JOIN tesco_elearning.question_write wr ON q.type = 3 AND wr.id = q.question_id
		LEFT JOIN tesco_elearning.question_match mt ON q.type = 4 AND mt.id = q.question_id
		LEFT JOIN tesco_elearning.question_match_picture mp ON q.type = 5 AND mp.id = q.question_id
		WHERE q.quiz_id = $1 AND q.deleted_at IS NULL
		ORDER BY q."order", q.id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.QuestionEntry{}
	for rows.Next() {
		var e models.QuestionEntry
		if err := rows.Scan(&e.ID, &e.QuizID, &e.QuestionID, &e.Type, &e.Order, &e.Status,
			&e.CreatedAt, &e.UpdatedAt, &e.Title); err != nil {
			return nil, err
		}
		e.TypeName = e.Type.Name()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	abcd, err := QuestionsAbcd.FindAll(ctx, q, store.Query{Filter: store.Where("quiz_id", quizID)})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.QuestionAbcd, len(abcd))
	for i := range abcd {
		byID[abcd[i].ID] = &abcd[i]
	}
	for i := range out {
		if out[i].Type == models.QuestionABCD {
			out[i].ABCD = byID[out[i].QuestionID]
		}
	}
	return out, nil
}

// CreateQuiz fills user 1, score 80, pre-test type, unpublished and active when absent.
func CreateQuiz(ctx context.Context, database *sql.DB, v store.Values) (*models.Quiz, error) {
	v = pick(v, Quizzes.Fields)
	setDefault(v, "user_id", int64(1))
	setDefault(v, "score", 80)
	setDefault(v, "is_publish", 0)
	setDefault(v, "type", int(models.QuizPretest))
	v["status"] = 1
	return Quizzes.Create(ctx, database, v)
}

// UpdateQuiz ignores columns outside QuizFields.
func UpdateQuiz(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	v = pick(v, QuizFields)
	if len(v) == 0 {
		return false, nil
	}
	return Quizzes.Update(ctx, database, id, v)
}

func DeleteQuiz(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Quizzes.Delete(ctx, database, id)
}

func QuizStats(ctx context.Context, database *sql.DB) (models.QuizStats, error) {
	var s models.QuizStats
	err := database.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_publish = 1),
		       COUNT(*) FILTER (WHERE is_publish = 0)
		FROM `+tblQuiz+` WHERE deleted_at IS NULL`).Scan(&s.Total, &s.Published, &s.Draft)
	if err != nil {
		return s, fmt.Errorf("quiz stats: %w", err)
	}
	return s, nil
}

// DuplicateQuiz copies a quiz as an unpublished "<title> (Copy)" together with
// its ABCD questions. It returns nil, nil when the source is missing.
func DuplicateQuiz(ctx context.Context, database *sql.DB, id int64) (*models.Quiz, error) {
	var dup *models.Quiz
	err := store.InTx(ctx, database, func(tx *sql.Tx) error {
		src, err := Quizzes.FindByID(ctx, tx, id)
		if err != nil || src == nil {
			return err
		}
		newID, err := Quizzes.Insert(ctx, tx, store.Values{
			"course_id":          src.CourseID,
			"user_id":            src.UserID,
			"title":              src.Title + " (Copy)",
			"description":        src.Description,
			"score":              src.Score,
			"is_publish":         0,
			"is_random_question": src.IsRandomQuestion,
			"is_show_answer":     src.IsShowAnswer,
			"type":               int(src.Type),
			"video":              src.Video,
			"status":             1,
		})
		if err != nil {
			return err
		}

		links, err := Questions.FindAll(ctx, tx, store.Query{
			Filter:  store.Where("quiz_id", id).And("type", int(models.QuestionABCD)),
			OrderBy: []store.Order{store.Asc("order"), store.Asc("id")},
		})
		if err != nil {
			return err
		}
		for _, link := range links {
			var abcdID int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO `+tblQuestionAbcd+` (quiz_id, title, answer_a, answer_b, answer_c, answer_d,
					answer_a_correct, answer_b_correct, answer_c_correct, answer_d_correct,
					"order", path, image, video, media_type, is_random, weight, status, created_at, updated_at)
				SELECT $1, title, answer_a, answer_b, answer_c, answer_d,
					answer_a_correct, answer_b_correct, answer_c_correct, answer_d_correct,
					"order", path, image, video, media_type, is_random, weight, status, NOW(), NOW()
				FROM `+tblQuestionAbcd+` WHERE id = $2 AND deleted_at IS NULL
				RETURNING id`, newID, link.QuestionID).Scan(&abcdID)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("copy question %d: %w", link.QuestionID, err)
			}
			if _, err := Questions.Insert(ctx, tx, store.Values{
				"quiz_id": newID, "question_id": abcdID, "type": int(link.Type), "order": link.Order, "status": 1,
			}); err != nil {
				return err
			}
		}
		dup, err = Quizzes.FindByID(ctx, tx, newID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

type QuestionOrder struct {
	ID    int64 `json:"id" validate:"required,gt=0"`
	Order int   `json:"order" validate:"gte=0"`
}

// ReorderQuestions writes each link's order, scoped to quizID, in one transaction.
func ReorderQuestions(ctx context.Context, database *sql.DB, quizID int64, items []QuestionOrder) error {
	return store.InTx(ctx, database, func(tx *sql.Tx) error {
		for _, it := range items {
			if _, err := tx.ExecContext(ctx, `UPDATE `+tblQuestion+`
				SET "order" = $1, updated_at = NOW() WHERE id = $2 AND quiz_id = $3`,
				it.Order, it.ID, quizID); err != nil {
				return fmt.Errorf("reorder question %d: %w", it.ID, err)
			}
		}
		return nil
	})
}
