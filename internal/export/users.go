package export

import (
	"fmt"
	"time"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

var userHeader = []string{
	"Employee ID", "Name", "First name", "Last name", "Email", "Phone",
	"Position", "Department", "Format", "Company", "Type", "Status", "Updated",
}

// UsersSheet lays out a user listing, one row per user.
func UsersSheet(users []models.UserRow) Sheet {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{
			u.EmployeeID, u.DisplayName(), u.FirstName, u.LastName, u.Email, u.Phone,
			u.Position, u.Department, u.FormatName, u.CompanyName(), u.Type.Label(), u.StatusLabel(),
			u.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return Sheet{Title: "Users", Header: userHeader, Rows: rows}
}

// UsersWorkbook builds the export for one company partition.
func UsersWorkbook(users []models.UserRow) (*Workbook, error) {
	return NewWorkbook(UsersSheet(users))
}

func UsersFilename(company models.Company, now time.Time) string {
	return sanitizeFileName(fmt.Sprintf("users %s %s.xlsx", company, now.Format("2006-01-02")))
}
