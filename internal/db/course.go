package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

type CourseFilter struct {
	Keyword string
	Status  *int
	Type    *int
}

func (f CourseFilter) clause() clause {
	var c clause
	c.raw("deleted_at IS NULL")
	c.keyword(f.Keyword, "name", "course_code", "keywords")
	if f.Status != nil {
		c.add("status = ?", *f.Status)
	}
	if f.Type != nil {
		c.add("type = ?", *f.Type)
	}
	return c
}

// ListCourses returns one page of courses, newest first, each with its linked document count.
func ListCourses(ctx context.Context, database *sql.DB, f CourseFilter, p pagination.Params) (pagination.Page[models.CourseListItem], error) {
	c := f.clause()
	var total int64
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tblCourse+c.where(), c.args...).Scan(&total); err != nil {
		return pagination.Page[models.CourseListItem]{}, fmt.Errorf("count courses: %w", err)
	}

	q := `SELECT ` + strings.Join(courseColumns, ", ") + `,
		(SELECT COUNT(*) FROM ` + tblCourseDocument + ` cd WHERE cd.course_id = course.id AND cd.deleted_at IS NULL)
		FROM ` + tblCourse + c.where() + fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, c.next(), c.next()+1)
	rows, err := database.QueryContext(ctx, q, append(c.args, p.Limit(), p.Offset())...)
	if err != nil {
		return pagination.Page[models.CourseListItem]{}, fmt.Errorf("list courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.CourseListItem
	for rows.Next() {
		var item models.CourseListItem
		item.Course, err = scanCourse(rows, &item.DocumentCount)
		if err != nil {
			return pagination.Page[models.CourseListItem]{}, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[models.CourseListItem]{}, err
	}
	return pagination.NewPage(out, total, p), nil
}

// GetCourse returns nil, nil for a missing or deleted course.
func GetCourse(ctx context.Context, database *sql.DB, id int64) (*models.Course, error) {
	return Courses.FindByID(ctx, database, id)
}

// CourseOptions lists active courses by name for selects.
func CourseOptions(ctx context.Context, database *sql.DB, limit int) ([]models.CourseOption, error) {
	q := `SELECT id, name, course_code FROM ` + tblCourse + `
		WHERE deleted_at IS NULL AND status = 1 ORDER BY name`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := database.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("course options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.CourseOption{}
	for rows.Next() {
		var o models.CourseOption
		if err := rows.Scan(&o.ID, &o.Name, &o.CourseCode); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListActiveCoursesForQuiz feeds the quiz form's course select.
func ListActiveCoursesForQuiz(ctx context.Context, database *sql.DB) ([]models.CourseOption, error) {
	return CourseOptions(ctx, database, 2000)
}

// CourseCodeExists checks live rows only. An empty code never exists.
func CourseCodeExists(ctx context.Context, q store.Queryer, code string, excludeID int64) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tblCourse+`
		WHERE course_code = $1 AND id <> $2 AND deleted_at IS NULL`, code, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("course code exists: %w", err)
	}
	return n > 0, nil
}

func valueCode(v store.Values) string {
	switch c := v["course_code"].(type) {
	case string:
		return c
	case *string:
		if c != nil {
			return *c
		}
	}
	return ""
}

// CreateCourse rejects a code already used by a live course with ErrCodeExists.
func CreateCourse(ctx context.Context, database *sql.DB, v store.Values) (*models.Course, error) {
	exists, err := CourseCodeExists(ctx, database, valueCode(v), 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}
	c, err := Courses.Create(ctx, database, v)
	return c, codeConflict(err)
}

func UpdateCourse(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	exists, err := CourseCodeExists(ctx, database, valueCode(v), id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, ErrCodeExists
	}
	ok, err := Courses.Update(ctx, database, id, v)
	return ok, codeConflict(err)
}

func DeleteCourse(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Courses.Delete(ctx, database, id)
}

func RestoreCourse(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Courses.Restore(ctx, database, id)
}

func CourseStats(ctx context.Context, database *sql.DB) (models.CourseStats, error) {
	var s models.CourseStats
	err := database.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 1),
		       COUNT(*) FILTER (WHERE status = 2),
		       COUNT(*) FILTER (WHERE status = 0)
		FROM `+tblCourse+` WHERE deleted_at IS NULL`).Scan(&s.Total, &s.Active, &s.Draft, &s.Inactive)
	if err != nil {
		return s, fmt.Errorf("course stats: %w", err)
	}
	return s, nil
}

// CourseValues maps a course back to writable columns.
func CourseValues(c models.Course) store.Values {
	return store.Values{
		"name": c.Name, "course_code": c.CourseCode, "expire_at": c.ExpireAt, "totaltopic": c.TotalTopic,
		"keywords": c.Keywords, "courselevel": c.CourseLevel, "howtopass": c.HowToPass,
		"description": c.Description, "toc": c.TOC, "howto": c.HowTo, "targetlearner": c.TargetLearner,
		"pretest": c.Pretest, "pre_testing": c.PreTesting, "pretest_description": c.PretestDescription,
		"class_description": c.ClassDescription, "posttest": c.Posttest, "post_testing": c.PostTesting,
		"posttest_description": c.PosttestDesc, "homework": c.Homework,
		"example_description": c.ExampleDescription, "sendemail": c.SendEmail,
		"evaluate_link": c.EvaluateLink, "email_template": c.EmailTemplate,
		"status": int(c.Status), "type": int(c.Type), "course_show": c.CourseShow,
		"course_access": c.CourseAccess, "course_group": c.CourseGroup, "is_register": c.IsRegister,
		"delete_all": c.DeleteAll, "fullscreen": c.Fullscreen, "is_certificated": c.IsCertificated,
		"is_document_lock": c.IsDocumentLock, "user_id": c.UserID, "department_id": c.DepartmentID,
	}
}

// DuplicateCourse copies a course as a draft named "<name> (Copy)" with code
// "<code>-copy", or "<code>-copy-<n>" once that is taken by a live course.
// It returns nil, nil when the source is missing.
func DuplicateCourse(ctx context.Context, database *sql.DB, id int64) (*models.Course, error) {
	src, err := Courses.FindByID(ctx, database, id)
	if err != nil || src == nil {
		return nil, err
	}
	v := CourseValues(*src)
	v["name"] = src.Name + " (Copy)"
	v["status"] = int(models.CourseDraft)
	if src.CourseCode == nil {
		return Courses.Create(ctx, database, v)
	}
	for n := 1; n <= maxCopySuffix; n++ {
		code := copyCode(*src.CourseCode, n)
		exists, err := CourseCodeExists(ctx, database, code, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		v["course_code"] = code
		c, err := Courses.Create(ctx, database, v)
		if isUniqueViolation(err, courseCodeUniqueIx) {
			continue
		}
		return c, err
	}
	return nil, ErrCodeExists
}

const maxCopySuffix = 100

// copyCode is "<code>-copy" for the first copy and "<code>-copy-<n>" after it.
func copyCode(code string, n int) string {
	if n <= 1 {
		return code + "-copy"
	}
	return fmt.Sprintf("%s-copy-%d", code, n)
}
