package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lotuss-academy/lms-admin/internal/metrics"
)

const pingTimeout = 800 * time.Millisecond

func pingDB(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return sql.ErrConnDone
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	t0 := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	metrics.ObserveDBPing(time.Since(t0))
	return nil
}

func state(err error) string {
	if err != nil {
		return "disconnected"
	}
	return "connected"
}

func (s *Server) redisState(ctx context.Context) string {
	if s.cache == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.cache.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// health reports every backing service. Redis being down only degrades
// the dashboard cache, so it does not change the overall status.
func (s *Server) health(c *gin.Context) {
	ctx := c.Request.Context()
	lmsErr := pingDB(ctx, s.lms)
	tescoErr := pingDB(ctx, s.tesco)
	status := "ok"
	if lmsErr != nil || tescoErr != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": state(lmsErr),
		"tescoDb":  state(tescoErr),
		"redis":    s.redisState(ctx),
	})
}

func (s *Server) apiStatus(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"message": "LMS back-office is running",
		"status":  "running",
		"services": gin.H{
			"database": state(pingDB(ctx, s.lms)),
			"tescoDb":  state(pingDB(ctx, s.tesco)),
			"redis":    s.redisState(ctx),
		},
	})
}

func (s *Server) healthz(c *gin.Context) {
	if err := pingDB(c.Request.Context(), s.lms); err != nil {
		c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
		return
	}
	c.String(http.StatusOK, "ok")
}
