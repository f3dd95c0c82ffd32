package app

import (
	"bytes"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

func TestLoadViews_ParsesEveryPage(t *testing.T) {
	v, err := LoadViews()
	require.NoError(t, err)
	for _, name := range []string{
		"login", "login-form", "errors/403", "dashboard",
		"course/list", "course/form",
		"settings/quiz-list", "settings/quiz-form",
		"settings/format-list", "settings/format-form",
		"settings/functions-list", "settings/functions-form",
		"settings/department-list", "settings/department-form",
		"user/list", "user/view", "user/edit",
	} {
		_, isHTML := v.Instance(name, nil).(render.HTML)
		assert.True(t, isHTML, name)
	}
	_, isString := v.Instance("nope", nil).(render.String)
	assert.True(t, isString)
}

func renderPage(t *testing.T, name string, data gin.H) string {
	t.Helper()
	v, err := LoadViews()
	require.NoError(t, err)
	if _, set := data["query"]; !set {
		data["query"] = url.Values{}
	}
	w := httptest.NewRecorder()
	require.NoError(t, v.Instance(name, data).Render(w))
	return w.Body.String()
}

func TestQuizForm_CreateSelectsCourse(t *testing.T) {
	body := renderPage(t, "settings/quiz-form", gin.H{
		"pageTitle": "Create Quiz",
		"courses":   []models.CourseOption{{ID: 4, Name: "Food Safety"}, {ID: 5, Name: "Cash Handling"}},
		"courseID":  "5",
	})
	assert.Contains(t, body, "Food Safety")
	assert.Contains(t, body, `<option value="5" selected>`)
	assert.Contains(t, body, `action="/settings/quiz/create"`)
	assert.NotContains(t, body, "Add question")
}

func TestFormatForm_ShowsError(t *testing.T) {
	body := renderPage(t, "settings/format-form", gin.H{
		"pageTitle": "Create Format",
		"format":    (*models.Format)(nil),
		"error":     "Format name is required",
	})
	assert.Contains(t, body, "Format name is required")
	assert.Contains(t, body, `value="999"`)
}

func TestPageURL_KeepsFilters(t *testing.T) {
	q := url.Values{"k": {"safety"}, "page": {"1"}}
	assert.Equal(t, "?k=safety&page=3", pageURL(q, 3))
	assert.Equal(t, "1", q.Get("page"))
}

func TestFuncMap(t *testing.T) {
	fm := funcMap()
	var buf bytes.Buffer
	id := int64(7)
	buf.WriteString(fm["i64"].(func(*int64) string)(&id))
	buf.WriteString(fm["score"].(func(*float64) string)(nil))
	buf.WriteString(fm["monthName"].(func(int) string)(3))
	assert.Equal(t, "7-Mar", buf.String())
}
