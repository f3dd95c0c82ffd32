package app

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/logging"
	"github.com/lotuss-academy/lms-admin/internal/metrics"
	"github.com/lotuss-academy/lms-admin/internal/observability"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func okPage[T any](c *gin.Context, p pagination.Page[T]) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p.Data, "pagination": p.Pagination})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// report logs and captures an infrastructure error for op.
func (s *Server) report(c *gin.Context, op string, err error) {
	logging.FromContext(c.Request.Context(), s.log).Error(op, zap.Error(err))
	metrics.ObserveHandlerError(op)
	observability.CaptureCtxErr(c.Request.Context(), err)
	_ = c.Error(err)
}

// internalJSON reports err and answers 500 with msg.
func (s *Server) internalJSON(c *gin.Context, op string, err error, msg string) {
	s.report(c, op, err)
	fail(c, http.StatusInternalServerError, msg)
}

// redirectWith sends the browser to path with a single flash parameter.
func redirectWith(c *gin.Context, path, key, code string) {
	c.Redirect(http.StatusFound, path+"?"+key+"="+url.QueryEscape(code))
}

func redirectErr(c *gin.Context, path, code string) { redirectWith(c, path, "error", code) }
func redirectOK(c *gin.Context, path, code string)  { redirectWith(c, path, "success", code) }

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// optInt parses an optional filter value; empty or malformed means no filter.
func optInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func optInt64(s string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// orderValue reads a form order, defaulting to 999.
func orderValue(s string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n != 0 {
		return n
	}
	return 999
}

// checkbox is 1 only for the browser's "on" value.
func checkbox(s string) int {
	if s == "on" {
		return 1
	}
	return 0
}

// textOrNil stores empty form text as NULL.
func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
