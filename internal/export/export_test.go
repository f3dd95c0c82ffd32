package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

func TestColName(t *testing.T) {
	assert.Equal(t, "A", colName(1))
	assert.Equal(t, "Z", colName(26))
	assert.Equal(t, "AA", colName(27))
	assert.Equal(t, "AZ", colName(52))
}

func TestVisualLen_IgnoresThaiMarks(t *testing.T) {
	assert.Equal(t, 3, visualLen("abc"))
	// "ที่" is one base consonant plus two combining marks.
	assert.Equal(t, 1, visualLen("ที่"))
	assert.Equal(t, 5, visualLen("\ta"))
}

func TestUsersFilename(t *testing.T) {
	got := UsersFilename(models.CompanyMakro, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "users_makro_2025-03-09.xlsx", got)
}

func TestUsersWorkbook(t *testing.T) {
	company := "makro"
	users := []models.UserRow{
		{User: models.User{EmployeeID: "MKR-1", FirstName: "Nattaya", LastName: "M", Status: 1, Type: models.UserAdmin, Company: &company}, FormatName: "Wholesale"},
		{User: models.User{EmployeeID: "LTS-2", NameThai: "สมชาย", IsInactive: 1, Type: models.UserRegular}},
	}
	wb, err := UsersWorkbook(users)
	require.NoError(t, err)
	defer wb.Close()

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, userHeader, rows[0])
	assert.Equal(t, "MKR-1", rows[1][0])
	assert.Equal(t, "Nattaya M", rows[1][1])
	assert.Equal(t, "Wholesale", rows[1][8])
	assert.Equal(t, "makro", rows[1][9])
	assert.Equal(t, "Admin", rows[1][10])
	assert.Equal(t, "สมชาย", rows[2][1])
	assert.Equal(t, "Inactive", rows[2][11])
}

func TestNewWorkbook_RequiresSheet(t *testing.T) {
	_, err := NewWorkbook()
	assert.Error(t, err)
}
