//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lotuss-academy/lms-admin/internal/testutil/testdb"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "testdb:", err)
		os.Exit(1)
	}
	testDB = h.DB
	code := m.Run()
	h.Close()
	os.Exit(code)
}

func freshDB(t *testing.T) (context.Context, *sql.DB) {
	t.Helper()
	testdb.Truncate(t, testDB)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx, testDB
}

func mustExec(t *testing.T, database *sql.DB, q string, args ...any) {
	t.Helper()
	if _, err := database.Exec(q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}

func mustSeedUser(t *testing.T, database *sql.DB, employeeID string, company any) int64 {
	t.Helper()
	var id int64
	err := database.QueryRow(`INSERT INTO tesco_elearning."user" (employee_id, first_name, last_name, company)
		VALUES ($1, 'First', 'Last', $2) RETURNING id`, employeeID, company).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustSeedPosition(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := database.QueryRow(`INSERT INTO tesco_elearning.position (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		t.Fatal(err)
	}
	return id
}

func mustSeedDocument(t *testing.T, database *sql.DB, name string, typ int) int64 {
	t.Helper()
	var id int64
	if err := database.QueryRow(`INSERT INTO lms.document (name, type) VALUES ($1, $2) RETURNING id`, name, typ).Scan(&id); err != nil {
		t.Fatal(err)
	}
	return id
}
