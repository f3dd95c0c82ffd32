package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lotuss-academy/lms-admin/internal/ctxutil"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/stats"
)

// dashboardParams reads ?year= and ?company=; the year defaults to the
// current one in the configured time zone.
func (s *Server) dashboardParams(c *gin.Context) (int, models.Company) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1970 {
		loc := time.Local
		if s.cfg != nil && s.cfg.Location != nil {
			loc = s.cfg.Location
		}
		year = time.Now().In(loc).Year()
	}
	return year, models.ParseCompany(c.Query("company"))
}

func (s *Server) dashboard(c *gin.Context) {
	year, company := s.dashboardParams(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	data := gin.H{"pageTitle": "Academy Dashboard", "companies": models.Companies}
	d, err := s.stats.AllStats(ctx, year, company)
	if err != nil {
		s.report(c, "dashboard", err)
		d = &stats.Dashboard{SelectedYear: year, SelectedCompany: company}
		data["error"] = "Failed to load dashboard statistics"
	}
	data["stats"] = d
	s.html(c, http.StatusOK, "dashboard", data)
}

func (s *Server) dashboardAPI(c *gin.Context) {
	year, company := s.dashboardParams(c)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	d, err := s.stats.AllStats(ctx, year, company)
	if err != nil {
		s.internalJSON(c, "dashboard_api", err, "Failed to fetch dashboard statistics")
		return
	}
	ok(c, d)
}

func (s *Server) dashboardClearCache(c *gin.Context) {
	if !s.stats.ClearCache(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Failed to clear cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache cleared"})
}
