package app

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

func TestCourseValues_StatusAndType(t *testing.T) {
	cases := []struct {
		form   url.Values
		status models.CourseStatus
		typ    models.CourseType
	}{
		{url.Values{}, models.CourseDraft, models.CourseNormal},
		{url.Values{"status_action": {"1"}, "status": {"2"}}, models.CourseActive, models.CourseNormal},
		{url.Values{"status": {"0"}, "type": {"3"}}, models.CourseInactive, models.CourseSCORM2004v2},
		{url.Values{"status": {"7"}, "type": {"9"}}, models.CourseDraft, models.CourseNormal},
		{url.Values{"status": {"x"}, "type": {"0"}}, models.CourseDraft, models.CourseNormal},
	}
	for _, tc := range cases {
		v := courseValues(tc.form)
		assert.Equal(t, int(tc.status), v["status"], tc.form.Encode())
		assert.Equal(t, int(tc.typ), v["type"], tc.form.Encode())
	}
}

func TestCourseValues_Fields(t *testing.T) {
	v := courseValues(url.Values{
		"name":        {"  Food Safety  "},
		"course_code": {""},
		"expire_at":   {"30"},
		"pretest":     {"1"},
		"posttest":    {"on"},
		"fullscreen":  {"on"},
		"keywords":    {""},
	})
	assert.Equal(t, "Food Safety", v["name"])
	assert.Nil(t, v["course_code"])
	assert.Equal(t, int64(30), v["expire_at"])
	assert.Nil(t, v["totaltopic"])
	assert.Equal(t, 1, v["pretest"])
	assert.Equal(t, 0, v["posttest"])
	assert.Equal(t, 1, v["fullscreen"])
	assert.Equal(t, 0, v["is_register"])
	assert.Nil(t, v["keywords"])
}

func TestCourseStore_NameRequired(t *testing.T) {
	s := newTestServer(t)
	r := gin.New()
	r.HTMLRender = s.views
	r.POST("/course/create", s.courseStore)
	req := httptest.NewRequest(http.MethodPost, "/course/create", strings.NewReader("name=+&status=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Course name is required")
}
