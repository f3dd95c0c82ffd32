//go:build testutil
// +build testutil

package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/store"
	"github.com/lotuss-academy/lms-admin/internal/testutil/testdb"
)

func TestMutations_MissingRowRedirectsNotFound(t *testing.T) {
	database := testdb.MustStart(t)
	s := newTestServer(t)
	s.lms, s.tesco = database, database

	r := gin.New()
	r.HTMLRender = s.views
	r.POST("/course/:id/edit", s.courseUpdate)
	r.POST("/course/:id/delete", s.courseDelete)
	r.POST("/settings/quiz/:id/edit", s.quizUpdate)
	r.POST("/settings/quiz/:id/delete", s.quizDelete)
	r.POST("/user/:id/delete", s.userDelete)
	r.POST("/settings/format/:id/edit", s.formatUpdate)
	r.POST("/settings/department/:id/delete", s.departmentDelete)

	cases := map[string]string{
		"/course/999999/edit":                "/course?error=notfound",
		"/course/999999/delete":              "/course?error=notfound",
		"/settings/quiz/999999/edit":         "/settings/quiz?error=notfound",
		"/settings/quiz/999999/delete":       "/settings/quiz?error=notfound",
		"/user/999999/delete":                "/user?error=notfound",
		"/settings/format/999999/edit":       "/settings/format?error=notfound",
		"/settings/department/999999/delete": "/settings/department?error=notfound",
	}
	for target, want := range cases {
		w := postForm(r, target, "name=Ghost&title=Ghost&submit=draft")
		assert.Equal(t, want, w.Header().Get("Location"), target)
	}
}

func TestQuizQuestionEdits_WaitForQuizLock(t *testing.T) {
	database := testdb.MustStart(t)
	s := newTestServer(t)
	s.tesco = database

	quiz, err := db.CreateQuiz(context.Background(), database, store.Values{"title": "Hygiene"})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/settings/quiz/:id/question/abcd", s.quizCreateAbcd)

	unlock := s.lockQuiz(quiz.ID)
	done := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/settings/quiz/%d/question/abcd", quiz.ID),
			strings.NewReader(`{"title":"Wash hands?","answer_a":"Yes","answer_a_correct":1}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		done <- w.Code
	}()

	select {
	case <-done:
		t.Fatal("question created while the quiz was locked")
	case <-time.After(150 * time.Millisecond):
	}
	unlock()

	select {
	case code := <-done:
		assert.Equal(t, http.StatusOK, code)
	case <-time.After(10 * time.Second):
		t.Fatal("create never finished")
	}
}
