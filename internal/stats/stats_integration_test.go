//go:build testutil
// +build testutil

package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/cache"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/stats"
	"github.com/lotuss-academy/lms-admin/internal/testutil/testdb"
)

func TestAggregator_MonthlyAndTopCourses(t *testing.T) {
	database := testdb.MustStart(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var courseID, lotus, makro int64
	require.NoError(t, database.QueryRow(`INSERT INTO lms.course (name) VALUES ('Food Safety') RETURNING id`).Scan(&courseID))
	require.NoError(t, database.QueryRow(`INSERT INTO tesco_elearning."user" (employee_id, first_name) VALUES ('LTS-1', 'A') RETURNING id`).Scan(&lotus))
	require.NoError(t, database.QueryRow(`INSERT INTO tesco_elearning."user" (employee_id, first_name, company) VALUES ('MKR-1', 'B', 'makro') RETURNING id`).Scan(&makro))

	enroll := func(user int64, at string, finished int) {
		_, err := database.Exec(`INSERT INTO tesco_elearning.class_student (user_id, course_id, is_finished, posttest, created_at, updated_at)
			VALUES ($1, $2, $3, 90, $4, $4)`, user, courseID, finished, at)
		require.NoError(t, err)
	}
	enroll(lotus, "2025-03-10T08:00:00Z", 1)
	enroll(lotus, "2025-03-20T08:00:00Z", 0)
	enroll(lotus, "2025-07-01T08:00:00Z", 1)
	enroll(makro, "2025-07-02T08:00:00Z", 1)
	enroll(lotus, "2024-12-31T08:00:00Z", 1)

	agg := stats.New(database, database, nil, time.UTC, zap.NewNop())

	months, err := agg.MonthlyStats(ctx, 2025, models.CompanyLotus)
	require.NoError(t, err)
	require.Len(t, months, 12)
	for _, m := range months {
		switch m.Month {
		case 3:
			assert.Equal(t, int64(2), m.Enrollments)
			assert.Equal(t, int64(1), m.Completions)
		case 7:
			assert.Equal(t, int64(1), m.Enrollments)
		default:
			assert.Zero(t, m.Enrollments, "month %d", m.Month)
			assert.Zero(t, m.Completions, "month %d", m.Month)
		}
	}

	months, err = agg.MonthlyStats(ctx, 2025, models.CompanyAll)
	require.NoError(t, err)
	assert.Equal(t, int64(2), months[6].Enrollments)

	top, err := agg.TopCourses(ctx, 2025, models.CompanyAll, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Food Safety", top[0].CourseName)
	assert.Equal(t, int64(4), top[0].TotalEnrollments)
	assert.Equal(t, int64(3), top[0].CompletedCount)

	years, err := agg.AvailableYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2024}, years)
}

func TestAggregator_WarmAndLocalYears(t *testing.T) {
	database := testdb.MustStart(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var courseID, lotus int64
	require.NoError(t, database.QueryRow(`INSERT INTO lms.course (name) VALUES ('Cold Chain') RETURNING id`).Scan(&courseID))
	require.NoError(t, database.QueryRow(`INSERT INTO tesco_elearning."user" (employee_id, first_name) VALUES ('LTS-9', 'C') RETURNING id`).Scan(&lotus))
	// 02:00 on New Year's Day in Bangkok is still 2024 in UTC.
	_, err := database.Exec(`INSERT INTO tesco_elearning.class_student (user_id, course_id, is_finished, created_at, updated_at)
		VALUES ($1, $2, 1, '2025-01-01T02:00:00+07:00', '2025-01-01T02:00:00+07:00')`, lotus, courseID)
	require.NoError(t, err)

	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rc := cache.New(cache.Options{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(func() { _ = rc.Close() })
	require.NoError(t, rc.Ping(ctx))

	agg := stats.New(database, database, rc, bangkok, zap.NewNop())

	months, err := agg.MonthlyStats(ctx, 2025, models.CompanyLotus)
	require.NoError(t, err)
	assert.Equal(t, int64(1), months[0].Enrollments)
	years, err := agg.AvailableYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, years)

	require.NoError(t, mr.Set("dashboard:users:all", `{"total":42}`))
	require.NoError(t, mr.Set("dashboard:learning:2023:all", `{"total_records":7}`))
	require.NoError(t, mr.Set("dashboard:users:lotus", `{"total":99}`))

	require.NoError(t, agg.Warm(ctx, 2025, models.CompanyLotus))

	assert.True(t, mr.Exists("dashboard:users:all"))
	assert.True(t, mr.Exists("dashboard:learning:2023:all"))
	raw, err := mr.Get("dashboard:users:lotus")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":1,"active":1,"admins":0}`, raw)
}
