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

type UserFilter struct {
	Keyword    string
	FormatID   *int64
	Status     *int
	Type       *int
	IsInactive *int
	Company    models.Company
}

func (f UserFilter) clause() clause {
	var c clause
	c.raw("deleted_at IS NULL")
	c.keyword(f.Keyword, "employee_id", "first_name", "last_name", "name_thai", "email", "phone")
	if f.FormatID != nil {
		c.add("format_id = ?", *f.FormatID)
	}
	if f.Status != nil {
		c.add("status = ?", *f.Status)
	}
	if f.Type != nil {
		c.add("type = ?", *f.Type)
	}
	if f.IsInactive != nil {
		c.add("is_inactive = ?", *f.IsInactive)
	}
	c.raw(CompanyCondition("", models.ParseCompany(string(f.Company))))
	return c
}

const userExtras = `,
	COALESCE((SELECT f.name FROM ` + tblFormat + ` f WHERE f.id = "user".format_id), '')`

func queryUsers(ctx context.Context, q store.Queryer, sqlText string, args ...any) ([]models.UserRow, error) {
	rows, err := q.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.UserRow{}
	for rows.Next() {
		var r models.UserRow
		r.User, err = scanUser(rows, &r.FormatName)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListUsers returns one page of users in the filter's company partition.
func ListUsers(ctx context.Context, database *sql.DB, f UserFilter, p pagination.Params) (pagination.Page[models.UserRow], error) {
	c := f.clause()
	var total int64
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tblUser+c.where(), c.args...).Scan(&total); err != nil {
		return pagination.Page[models.UserRow]{}, fmt.Errorf("count users: %w", err)
	}
	q := `SELECT ` + strings.Join(userColumns, ", ") + userExtras + ` FROM ` + tblUser + c.where() +
		fmt.Sprintf(` ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d`, c.next(), c.next()+1)
	users, err := queryUsers(ctx, database, q, append(c.args, p.Limit(), p.Offset())...)
	if err != nil {
		return pagination.Page[models.UserRow]{}, err
	}
	return pagination.NewPage(users, total, p), nil
}

// UsersForExport is ListUsers without paging, for the spreadsheet export.
func UsersForExport(ctx context.Context, database *sql.DB, f UserFilter) ([]models.UserRow, error) {
	c := f.clause()
	q := `SELECT ` + strings.Join(userColumns, ", ") + userExtras + ` FROM ` + tblUser + c.where() +
		` ORDER BY employee_id, id`
	return queryUsers(ctx, database, q, c.args...)
}

func getUserWhere(ctx context.Context, q store.Queryer, cond string, arg any) (*models.UserRow, error) {
	users, err := queryUsers(ctx, q, `SELECT `+strings.Join(userColumns, ", ")+userExtras+
		` FROM `+tblUser+` WHERE `+cond+` AND deleted_at IS NULL LIMIT 1`, arg)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

func GetUser(ctx context.Context, q store.Queryer, id int64) (*models.UserRow, error) {
	return getUserWhere(ctx, q, "id = $1", id)
}

func GetUserByEmployeeID(ctx context.Context, q store.Queryer, employeeID string) (*models.UserRow, error) {
	return getUserWhere(ctx, q, "employee_id = $1", employeeID)
}

// UpdateUser writes the editable columns and returns the fresh row. Without
// editable values it returns the current row untouched.
func UpdateUser(ctx context.Context, database *sql.DB, id int64, v store.Values) (*models.UserRow, error) {
	v = pick(v, UserFields)
	if len(v) > 0 {
		if _, err := Users.Update(ctx, database, id, v); err != nil {
			return nil, err
		}
	}
	return GetUser(ctx, database, id)
}

func DeleteUser(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Users.Delete(ctx, database, id)
}

func UserStats(ctx context.Context, database *sql.DB, company models.Company) (models.UserStats, error) {
	var c clause
	c.raw("deleted_at IS NULL")
	c.raw(CompanyCondition("", company))
	var s models.UserStats
	err := database.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 1 AND is_inactive = 0),
		       COUNT(*) FILTER (WHERE is_inactive = 1),
		       COUNT(*) FILTER (WHERE type IN (2, 3))
		FROM `+tblUser+c.where()).Scan(&s.Total, &s.Active, &s.Inactive, &s.Admins)
	if err != nil {
		return s, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}

// SearchUsers matches employee id and names for autocomplete.
func SearchUsers(ctx context.Context, database *sql.DB, keyword string, limit int) ([]models.UserHit, error) {
	if limit <= 0 {
		limit = 20
	}
	var c clause
	c.raw("deleted_at IS NULL")
	c.keyword(keyword, "employee_id", "first_name", "last_name", "name_thai")
	rows, err := database.QueryContext(ctx, `
		SELECT id, COALESCE(employee_id, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
		       COALESCE(name_thai, ''), COALESCE(position, ''), COALESCE(department, '')
		FROM `+tblUser+c.where()+fmt.Sprintf(` ORDER BY employee_id LIMIT %d`, limit), c.args...)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.UserHit{}
	for rows.Next() {
		var h models.UserHit
		if err := rows.Scan(&h.ID, &h.EmployeeID, &h.FirstName, &h.LastName, &h.NameThai, &h.Position, &h.Department); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CourseHistory returns a page of a user's enrollments, newest first.
func CourseHistory(ctx context.Context, database *sql.DB, userID int64, p pagination.Params) (pagination.Page[models.CourseHistory], error) {
	var total int64
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tblClassStudent+`
		WHERE user_id = $1 AND deleted_at IS NULL`, userID).Scan(&total); err != nil {
		return pagination.Page[models.CourseHistory]{}, fmt.Errorf("count course history: %w", err)
	}
	rows, err := database.QueryContext(ctx, `
		SELECT cs.id, cs.user_id, cs.class_id, cs.course_id, COALESCE(cs.is_finished, 0),
		       cs.score, cs.total_score, cs.pretest, cs.posttest, cs.ontime, cs.created_at, cs.updated_at,
		       COALESCE(c.name, ''), cl.user_id, cl.is_finished
		FROM `+tblClassStudent+` cs
		LEFT JOIN `+tblCourse+` c ON c.id = cs.course_id
		LEFT JOIN `+tblClass+` cl ON cl.id = cs.class_id
		WHERE cs.user_id = $1 AND cs.deleted_at IS NULL
		ORDER BY cs.created_at DESC, cs.id DESC
		LIMIT $2 OFFSET $3`, userID, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[models.CourseHistory]{}, fmt.Errorf("course history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.CourseHistory
	for rows.Next() {
		var h models.CourseHistory
		if err := rows.Scan(&h.ClassStudentID, &h.UserID, &h.ClassID, &h.CourseID, &h.IsFinished,
			&h.Score, &h.TotalScore, &h.Pretest, &h.Posttest, &h.OnTime, &h.CreatedAt, &h.UpdatedAt,
			&h.CourseName, &h.ClassCreatorID, &h.ClassFinished); err != nil {
			return pagination.Page[models.CourseHistory]{}, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[models.CourseHistory]{}, err
	}
	return pagination.NewPage(out, total, p), nil
}

// GetClassStudent loads one enrollment with course and learner names.
func GetClassStudent(ctx context.Context, database *sql.DB, id int64) (*models.ClassStudent, error) {
	var cs models.ClassStudent
	err := database.QueryRowContext(ctx, `
		SELECT cs.id, cs.user_id, cs.class_id, cs.course_id, COALESCE(cs.is_finished, 0),
		       cs.score, cs.total_score, cs.pretest, cs.posttest, cs.ontime, cs.created_at, cs.updated_at,
		       COALESCE(c.name, ''), COALESCE(u.employee_id, ''), COALESCE(u.first_name, ''),
		       COALESCE(u.last_name, ''), COALESCE(u.name_thai, '')
		FROM `+tblClassStudent+` cs
		LEFT JOIN `+tblCourse+` c ON c.id = cs.course_id
		LEFT JOIN `+tblUser+` u ON u.id = cs.user_id
		WHERE cs.id = $1 AND cs.deleted_at IS NULL`, id).Scan(
		&cs.ID, &cs.UserID, &cs.ClassID, &cs.CourseID, &cs.IsFinished,
		&cs.Score, &cs.TotalScore, &cs.Pretest, &cs.Posttest, &cs.OnTime, &cs.CreatedAt, &cs.UpdatedAt,
		&cs.CourseName, &cs.EmployeeID, &cs.FirstName, &cs.LastName, &cs.NameThai)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class student %d: %w", id, err)
	}
	return &cs, nil
}
