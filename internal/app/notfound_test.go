package app

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMutations_InvalidIDRedirectsNotFound(t *testing.T) {
	s := newTestServer(t)
	r := gin.New()
	r.HTMLRender = s.views
	r.POST("/course/:id/edit", s.courseUpdate)
	r.POST("/course/:id/delete", s.courseDelete)
	r.POST("/settings/quiz/:id/edit", s.quizUpdate)
	r.POST("/settings/quiz/:id/delete", s.quizDelete)
	r.POST("/user/:id/edit", s.userUpdate)
	r.POST("/user/:id/delete", s.userDelete)
	r.POST("/settings/format/:id/edit", s.formatUpdate)
	r.POST("/settings/format/:id/delete", s.formatDelete)
	r.POST("/settings/functions/:id/edit", s.functionsUpdate)
	r.POST("/settings/functions/:id/delete", s.functionsDelete)
	r.POST("/settings/department/:id/edit", s.departmentUpdate)
	r.POST("/settings/department/:id/delete", s.departmentDelete)

	cases := []struct {
		target string
		want   string
	}{
		{"/course/abc/edit", "/course?error=notfound"},
		{"/course/0/delete", "/course?error=notfound"},
		{"/settings/quiz/-4/edit", "/settings/quiz?error=notfound"},
		{"/settings/quiz/x/delete", "/settings/quiz?error=notfound"},
		{"/user/nope/edit", "/user?error=notfound"},
		{"/user/0/delete", "/user?error=notfound"},
		{"/settings/format/x/edit", "/settings/format?error=notfound"},
		{"/settings/format/x/delete", "/settings/format?error=notfound"},
		{"/settings/functions/0/edit", "/settings/functions?error=notfound"},
		{"/settings/functions/0/delete", "/settings/functions?error=notfound"},
		{"/settings/department/x/edit", "/settings/department?error=notfound"},
		{"/settings/department/x/delete", "/settings/department?error=notfound"},
	}
	for _, tc := range cases {
		w := postForm(r, tc.target, "name=Ops&format_id=1&functions_id=1")
		assert.Equal(t, http.StatusFound, w.Code, tc.target)
		assert.Equal(t, tc.want, w.Header().Get("Location"), tc.target)
	}
}
