package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

var departmentColumns = []string{"id", "functions_id", "name", `"order"`, "status", "created_at", "updated_at"}

func queryDepartments(ctx context.Context, database *sql.DB, tail string, args ...any) ([]models.DepartmentWithRelations, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT `+prefixed("d", departmentColumns)+`, COALESCE(fn.name, ''), COALESCE(fmt.id, 0), COALESCE(fmt.name, '')
		FROM `+tblDepartment+` d
		LEFT JOIN `+tblFunctions+` fn ON fn.id = d.functions_id
		LEFT JOIN `+tblFormat+` fmt ON fmt.id = fn.format_id
		`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.DepartmentWithRelations{}
	for rows.Next() {
		var d models.DepartmentWithRelations
		d.Department, err = scanDepartment(rows, &d.FunctionsName, &d.FormatID, &d.FormatName)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DepartmentsWithRelations lists live departments under their function and format.
func DepartmentsWithRelations(ctx context.Context, database *sql.DB) ([]models.DepartmentWithRelations, error) {
	return queryDepartments(ctx, database, `WHERE d.deleted_at IS NULL ORDER BY fmt.id, fn.id, d."order", d.id`)
}

// DepartmentsByFunction lists the active departments of one function.
func DepartmentsByFunction(ctx context.Context, database *sql.DB, functionsID int64) ([]models.Department, error) {
	return Departments.FindAll(ctx, database, store.Query{
		Filter:  store.Where("functions_id", functionsID).And("status", 1),
		OrderBy: []store.Order{store.Asc("order"), store.Asc("name")},
	})
}

func GetDepartment(ctx context.Context, database *sql.DB, id int64) (*models.DepartmentWithRelations, error) {
	list, err := queryDepartments(ctx, database, `WHERE d.id = $1 AND d.deleted_at IS NULL`, id)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func DepartmentOptions(ctx context.Context, database *sql.DB) ([]models.Option, error) {
	return options(ctx, database, `SELECT id, name FROM `+tblDepartment+`
		WHERE deleted_at IS NULL AND status = 1 ORDER BY "order", name`)
}

func CountDepartmentsByFunction(ctx context.Context, database *sql.DB, functionsID int64) (int64, error) {
	return Departments.Count(ctx, database, store.Where("functions_id", functionsID))
}

func DepartmentNameExistsInFunction(ctx context.Context, database *sql.DB, name string, functionsID, excludeID int64) (bool, error) {
	return exists(ctx, database, `SELECT COUNT(*) FROM `+tblDepartment+`
		WHERE LOWER(name) = LOWER($1) AND functions_id = $2 AND id <> $3 AND deleted_at IS NULL`,
		strings.TrimSpace(name), functionsID, excludeID)
}

// DepartmentUserCount counts live users assigned to the department.
func DepartmentUserCount(ctx context.Context, database *sql.DB, id int64) (int64, error) {
	return Users.Count(ctx, database, store.Where("department_id", id))
}

func CreateDepartment(ctx context.Context, database *sql.DB, v store.Values) (*models.Department, error) {
	name, _ := v["name"].(string)
	functionsID, _ := v["functions_id"].(int64)
	taken, err := DepartmentNameExistsInFunction(ctx, database, name, functionsID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameExists
	}
	return Departments.Create(ctx, database, v)
}

func UpdateDepartment(ctx context.Context, database *sql.DB, id int64, v store.Values) (bool, error) {
	name, hasName := v["name"].(string)
	functionsID, hasParent := v["functions_id"].(int64)
	if hasName && hasParent {
		taken, err := DepartmentNameExistsInFunction(ctx, database, name, functionsID, id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, ErrNameExists
		}
	}
	return Departments.Update(ctx, database, id, v)
}

func DeleteDepartment(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	return Departments.Delete(ctx, database, id)
}
