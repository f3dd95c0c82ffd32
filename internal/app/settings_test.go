package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postForm(h http.Handler, target, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestFormatStore_NameRequired(t *testing.T) {
	s := newTestServer(t)
	r := gin.New()
	r.HTMLRender = s.views
	r.POST("/settings/format/create", s.formatStore)
	r.POST("/settings/format/:id/edit", s.formatUpdate)

	w := postForm(r, "/settings/format/create", "name=++&order=4&status=on")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Format name is required")
	assert.Contains(t, w.Body.String(), `value="4"`)

	w = postForm(r, "/settings/format/8/edit", "name=")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/settings/format/8/edit"`)
}

func TestOrgUpdate_ValidationRedirects(t *testing.T) {
	s := newTestServer(t)
	r := gin.New()
	r.POST("/settings/functions/:id/edit", s.functionsUpdate)
	r.POST("/settings/department/:id/edit", s.departmentUpdate)

	w := postForm(r, "/settings/functions/3/edit", "name=Ops&format_id=")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/settings/functions/3/edit?error=validation", w.Header().Get("Location"))

	w = postForm(r, "/settings/department/5/edit", "name=&functions_id=2")
	assert.Equal(t, "/settings/department/5/edit?error=validation", w.Header().Get("Location"))
}

func TestOrgValues(t *testing.T) {
	r := gin.New()
	var got map[string]any
	r.POST("/", func(c *gin.Context) {
		v := functionsValues(c)
		got = v
	})
	postForm(r, "/", "name=+Ops+&order=&status=1&format_id=7&color=")
	assert.Equal(t, "Ops", got["name"])
	assert.Equal(t, 999, got["order"])
	assert.Equal(t, 0, got["status"])
	assert.Equal(t, int64(7), got["format_id"])
	assert.Nil(t, got["color"])
}
