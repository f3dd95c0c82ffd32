// Package stats computes the dashboard figures over the Tesco schema, each
// component cached independently under the dashboard: namespace.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lotuss-academy/lms-admin/internal/cache"
	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/models"
)

const KeyPrefix = "dashboard:"

type Users struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Admins int64 `json:"admins"`
}

type Learning struct {
	TotalRecords  int64    `json:"total_records"`
	Completed     int64    `json:"completed"`
	InProgress    int64    `json:"in_progress"`
	PendingReview int64    `json:"pending_review"`
	AvgPosttest   *float64 `json:"avg_posttest"`
	AvgPretest    *float64 `json:"avg_pretest"`
}

// CompletionRate is completed over total records, in percent.
func (l Learning) CompletionRate() float64 {
	if l.TotalRecords == 0 {
		return 0
	}
	return float64(l.Completed) * 100 / float64(l.TotalRecords)
}

type Courses struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type TopCourse struct {
	CourseID         int64    `json:"course_id"`
	CourseName       string   `json:"course_name"`
	TotalEnrollments int64    `json:"total_enrollments"`
	CompletedCount   int64    `json:"completed_count"`
	AvgPosttest      *float64 `json:"avg_posttest"`
}

type Month struct {
	Month       int   `json:"month"`
	Enrollments int64 `json:"enrollments"`
	Completions int64 `json:"completions"`
}

type Completion struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CourseID   *int64    `json:"course_id"`
	Score      *float64  `json:"score"`
	TotalScore *float64  `json:"total_score"`
	Posttest   *float64  `json:"posttest"`
	UpdatedAt  time.Time `json:"updated_at"`
	EmployeeID string    `json:"employee_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	NameThai   string    `json:"name_thai"`
	Company    string    `json:"company"`
	CourseName string    `json:"course_name"`
}

func (c Completion) DisplayName() string {
	return models.User{NameThai: c.NameThai, FirstName: c.FirstName, LastName: c.LastName}.DisplayName()
}

type Dashboard struct {
	Users             Users          `json:"users"`
	Learning          Learning       `json:"learning"`
	Courses           Courses        `json:"courses"`
	TopCourses        []TopCourse    `json:"topCourses"`
	MonthlyStats      []Month        `json:"monthlyStats"`
	RecentCompletions []Completion   `json:"recentCompletions"`
	AvailableYears    []int          `json:"availableYears"`
	SelectedYear      int            `json:"selectedYear"`
	SelectedCompany   models.Company `json:"selectedCompany"`
}

// Aggregator reads enrollments and users from tesco and courses from lms.
// Years and months are calendar periods in loc.
type Aggregator struct {
	tesco *sql.DB
	lms   *sql.DB
	cache *cache.Cache
	loc   *time.Location
	log   *zap.Logger
}

func New(lms, tesco *sql.DB, c *cache.Cache, loc *time.Location, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil || loc == time.Local {
		loc = time.UTC
	}
	return &Aggregator{tesco: tesco, lms: lms, cache: c, loc: loc, log: log.Named("stats")}
}

// yearRange is [year-01-01, year+1-01-01) in loc.
func yearRange(year int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0)
}

// zone is the IANA name handed to AT TIME ZONE.
func (a *Aggregator) zone() string { return a.loc.String() }

func companyAnd(alias string, company models.Company) string {
	if cond := db.CompanyCondition(alias, company); cond != "" {
		return " AND " + cond
	}
	return ""
}

func (a *Aggregator) UserStats(ctx context.Context, company models.Company) (Users, error) {
	return cache.GetOrFetch(ctx, a.cache, KeyPrefix+"users:"+string(company), func(ctx context.Context) (Users, error) {
		var u Users
		err := a.tesco.QueryRowContext(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 1 AND is_inactive = 0),
			       COUNT(*) FILTER (WHERE type IN (2, 3))
			FROM tesco_elearning."user"
			WHERE deleted_at IS NULL`+companyAnd("", company)).Scan(&u.Total, &u.Active, &u.Admins)
		if err != nil {
			return u, fmt.Errorf("user stats: %w", err)
		}
		return u, nil
	})
}

func (a *Aggregator) LearningStats(ctx context.Context, year int, company models.Company) (Learning, error) {
	key := fmt.Sprintf("%slearning:%d:%s", KeyPrefix, year, company)
	return cache.GetOrFetch(ctx, a.cache, key, func(ctx context.Context) (Learning, error) {
		from, to := yearRange(year, a.loc)
		var l Learning
		err := a.tesco.QueryRowContext(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE cs.is_finished = 1),
			       COUNT(*) FILTER (WHERE cs.is_finished = 0 OR cs.is_finished IS NULL),
			       COUNT(*) FILTER (WHERE cs.is_finished = 2),
			       ROUND(AVG(cs.posttest)::numeric, 1)::float8,
			       ROUND(AVG(cs.pretest)::numeric, 1)::float8
			FROM tesco_elearning.class_student cs
			LEFT JOIN tesco_elearning."user" u ON u.id = cs.user_id
			WHERE cs.deleted_at IS NULL AND cs.created_at >= $1 AND cs.created_at < $2`+companyAnd("u", company),
			from, to).Scan(&l.TotalRecords, &l.Completed, &l.InProgress, &l.PendingReview, &l.AvgPosttest, &l.AvgPretest)
		if err != nil {
			return l, fmt.Errorf("learning stats: %w", err)
		}
		return l, nil
	})
}

func (a *Aggregator) CourseStats(ctx context.Context) (Courses, error) {
	return cache.GetOrFetch(ctx, a.cache, KeyPrefix+"courses", func(ctx context.Context) (Courses, error) {
		var c Courses
		err := a.lms.QueryRowContext(ctx, `
			SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 1)
			FROM lms.course WHERE deleted_at IS NULL`).Scan(&c.Total, &c.Active)
		if err != nil {
			return c, fmt.Errorf("course stats: %w", err)
		}
		return c, nil
	})
}

func (a *Aggregator) TopCourses(ctx context.Context, year int, company models.Company, limit int) ([]TopCourse, error) {
	key := fmt.Sprintf("%stopCourses:%d:%s", KeyPrefix, year, company)
	return cache.GetOrFetch(ctx, a.cache, key, func(ctx context.Context) ([]TopCourse, error) {
		from, to := yearRange(year, a.loc)
		rows, err := a.tesco.QueryContext(ctx, `
			SELECT cs.course_id, COALESCE(MAX(co.name), ''), COUNT(*),
			       COUNT(*) FILTER (WHERE cs.is_finished = 1),
			       ROUND(AVG(cs.posttest)::numeric, 1)::float8
			FROM tesco_elearning.class_student cs
			LEFT JOIN lms.course co ON co.id = cs.course_id
			LEFT JOIN tesco_elearning."user" u ON u.id = cs.user_id
			WHERE cs.deleted_at IS NULL AND cs.course_id IS NOT NULL
			  AND cs.created_at >= $1 AND cs.created_at < $2`+companyAnd("u", company)+`
			GROUP BY cs.course_id
			ORDER BY COUNT(*) DESC, cs.course_id
			LIMIT $3`, from, to, limit)
		if err != nil {
			return nil, fmt.Errorf("top courses: %w", err)
		}
		defer func() { _ = rows.Close() }()

		out := []TopCourse{}
		for rows.Next() {
			var tc TopCourse
			if err := rows.Scan(&tc.CourseID, &tc.CourseName, &tc.TotalEnrollments, &tc.CompletedCount, &tc.AvgPosttest); err != nil {
				return nil, err
			}
			out = append(out, tc)
		}
		return out, rows.Err()
	})
}

// padMonths expands sparse per-month rows to all twelve months.
func padMonths(sparse []Month) []Month {
	out := make([]Month, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, m := range sparse {
		if m.Month >= 1 && m.Month <= 12 {
			out[m.Month-1] = m
		}
	}
	return out
}

func (a *Aggregator) MonthlyStats(ctx context.Context, year int, company models.Company) ([]Month, error) {
	key := fmt.Sprintf("%smonthly:%d:%s", KeyPrefix, year, company)
	return cache.GetOrFetch(ctx, a.cache, key, func(ctx context.Context) ([]Month, error) {
		from, to := yearRange(year, a.loc)
		rows, err := a.tesco.QueryContext(ctx, `
			SELECT EXTRACT(MONTH FROM cs.created_at AT TIME ZONE $3)::int AS month,
			       COUNT(*),
			       COUNT(*) FILTER (WHERE cs.is_finished = 1)
			FROM tesco_elearning.class_student cs
			LEFT JOIN tesco_elearning."user" u ON u.id = cs.user_id
			WHERE cs.deleted_at IS NULL AND cs.created_at >= $1 AND cs.created_at < $2`+companyAnd("u", company)+`
			GROUP BY month
			ORDER BY month`, from, to, a.zone())
		if err != nil {
			return nil, fmt.Errorf("monthly stats: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var sparse []Month
		for rows.Next() {
			var m Month
			if err := rows.Scan(&m.Month, &m.Enrollments, &m.Completions); err != nil {
				return nil, err
			}
			sparse = append(sparse, m)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return padMonths(sparse), nil
	})
}

func (a *Aggregator) RecentCompletions(ctx context.Context, year int, company models.Company, limit int) ([]Completion, error) {
	key := fmt.Sprintf("%srecentCompletions:%d:%s", KeyPrefix, year, company)
	return cache.GetOrFetch(ctx, a.cache, key, func(ctx context.Context) ([]Completion, error) {
		from, to := yearRange(year, a.loc)
		rows, err := a.tesco.QueryContext(ctx, `
			SELECT cs.id, cs.user_id, cs.course_id, cs.score, cs.total_score, cs.posttest, cs.updated_at,
			       COALESCE(u.employee_id, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
			       COALESCE(u.name_thai, ''), COALESCE(u.company, ''), COALESCE(co.name, '')
			FROM tesco_elearning.class_student cs
			LEFT JOIN tesco_elearning."user" u ON u.id = cs.user_id
			LEFT JOIN lms.course co ON co.id = cs.course_id
			WHERE cs.deleted_at IS NULL AND cs.is_finished = 1
			  AND cs.created_at >= $1 AND cs.created_at < $2`+companyAnd("u", company)+`
			ORDER BY cs.updated_at DESC, cs.id DESC
			LIMIT $3`, from, to, limit)
		if err != nil {
			return nil, fmt.Errorf("recent completions: %w", err)
		}
		defer func() { _ = rows.Close() }()

		out := []Completion{}
		for rows.Next() {
			var c Completion
			if err := rows.Scan(&c.ID, &c.UserID, &c.CourseID, &c.Score, &c.TotalScore, &c.Posttest, &c.UpdatedAt,
				&c.EmployeeID, &c.FirstName, &c.LastName, &c.NameThai, &c.Company, &c.CourseName); err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, rows.Err()
	})
}

func (a *Aggregator) AvailableYears(ctx context.Context) ([]int, error) {
	return cache.GetOrFetch(ctx, a.cache, KeyPrefix+"availableYears", func(ctx context.Context) ([]int, error) {
		rows, err := a.tesco.QueryContext(ctx, `
			SELECT DISTINCT EXTRACT(YEAR FROM created_at AT TIME ZONE $1)::int AS year
			FROM tesco_elearning.class_student
			WHERE deleted_at IS NULL AND created_at IS NOT NULL
			ORDER BY year DESC
			LIMIT 10`, a.zone())
		if err != nil {
			return nil, fmt.Errorf("available years: %w", err)
		}
		defer func() { _ = rows.Close() }()

		out := []int{}
		for rows.Next() {
			var y int
			if err := rows.Scan(&y); err != nil {
				return nil, err
			}
			out = append(out, y)
		}
		return out, rows.Err()
	})
}

// AllStats computes every dashboard component concurrently. The first failure cancels the rest.
func (a *Aggregator) AllStats(ctx context.Context, year int, company models.Company) (*Dashboard, error) {
	d := &Dashboard{SelectedYear: year, SelectedCompany: company}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { d.Users, err = a.UserStats(ctx, company); return })
	g.Go(func() (err error) { d.Learning, err = a.LearningStats(ctx, year, company); return })
	g.Go(func() (err error) { d.Courses, err = a.CourseStats(ctx); return })
	g.Go(func() (err error) { d.TopCourses, err = a.TopCourses(ctx, year, company, 10); return })
	g.Go(func() (err error) { d.MonthlyStats, err = a.MonthlyStats(ctx, year, company); return })
	g.Go(func() (err error) { d.RecentCompletions, err = a.RecentCompletions(ctx, year, company, 10); return })
	g.Go(func() (err error) { d.AvailableYears, err = a.AvailableYears(ctx); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// ClearCache drops every dashboard key. It reports false when Redis is unavailable.
func (a *Aggregator) ClearCache(ctx context.Context) bool {
	n, err := a.cache.ClearPrefix(ctx, KeyPrefix)
	if err != nil {
		a.log.Warn("clear dashboard cache", zap.Error(err))
		return false
	}
	a.log.Info("dashboard cache cleared", zap.Int("keys", n))
	return true
}

// Warm recomputes the year for the given companies and overwrites their keys.
// Snapshots for other years and companies keep their TTL.
func (a *Aggregator) Warm(ctx context.Context, year int, companies ...models.Company) error {
	if !a.cache.Connected() {
		return nil
	}
	ctx = cache.WithRefresh(ctx)
	for _, c := range companies {
		if _, err := a.AllStats(ctx, year, c); err != nil {
			return fmt.Errorf("warm %s: %w", c, err)
		}
	}
	return nil
}
