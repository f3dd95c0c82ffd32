package app

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/lotuss-academy/lms-admin/internal/ctxutil"
	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

func quizFilter(q url.Values) db.QuizFilter {
	kw := q.Get("k")
	if kw == "" {
		kw = q.Get("keyword")
	}
	return db.QuizFilter{Keyword: kw, CourseID: optInt64(q.Get("course_id")), IsPublish: optInt(q.Get("status"))}
}

func (s *Server) quizList(c *gin.Context) {
	q := c.Request.URL.Query()
	p := pagination.New(pageParam(q), 20, pagination.QuizOpts)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		page   pagination.Page[models.QuizListItem]
		quizSt models.QuizStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { page, err = db.ListQuizzes(gctx, s.tesco, quizFilter(q), p); return })
	g.Go(func() (err error) { quizSt, err = db.QuizStats(gctx, s.tesco); return })

	data := gin.H{"pageTitle": "Quiz Management"}
	if err := g.Wait(); err != nil {
		s.report(c, "quiz_list", err)
		page = pagination.NewPage[models.QuizListItem](nil, 0, p)
		quizSt = models.QuizStats{}
		data["error"] = "Failed to load quizzes"
	}
	data["quizzes"] = page.Data
	data["pagination"] = page.Pagination
	data["stats"] = quizSt
	s.html(c, http.StatusOK, "settings/quiz-list", data)
}

func (s *Server) quizCreate(c *gin.Context) {
	courses, err := db.ListActiveCoursesForQuiz(c.Request.Context(), s.lms)
	if err != nil {
		s.report(c, "quiz_create_form", err)
		redirectErr(c, "/settings/quiz", "fetch")
		return
	}
	s.html(c, http.StatusOK, "settings/quiz-form", gin.H{
		"pageTitle": "Create Quiz",
		"action":    "create",
		"courses":   courses,
		"courseID":  c.Query("course_id"),
	})
}

// quizValues maps the quiz form; score defaults to 80 and type to pre-test.
func quizValues(form url.Values) store.Values {
	v := store.Values{
		"title":              textOrNil(strings.TrimSpace(form.Get("title"))),
		"description":        textOrNil(form.Get("description")),
		"score":              80,
		"is_random_question": 0,
		"is_show_answer":     0,
		"type":               int(models.QuizPretest),
		"video":              textOrNil(form.Get("video")),
		"course_id":          nil,
	}
	if id := optInt64(form.Get("course_id")); id != nil && *id > 0 {
		v["course_id"] = *id
	}
	if n, err := strconv.Atoi(form.Get("score")); err == nil && n != 0 {
		v["score"] = n
	}
	if n, err := strconv.Atoi(form.Get("type")); err == nil && n != 0 {
		v["type"] = n
	}
	if form.Get("is_random_question") != "" {
		v["is_random_question"] = 1
	}
	if form.Get("is_show_answer") != "" {
		v["is_show_answer"] = 1
	}
	return v
}

func (s *Server) quizStore(c *gin.Context) {
	_ = c.Request.ParseForm()
	v := quizValues(c.Request.PostForm)
	if v["title"] == nil {
		redirectErr(c, "/settings/quiz/create", "title_required")
		return
	}
	if v["course_id"] == nil {
		redirectErr(c, "/settings/quiz/create", "course_required")
		return
	}
	if u := currentUser(c); u != nil {
		v["user_id"] = u.ID
	}
	quiz, err := db.CreateQuiz(c.Request.Context(), s.tesco, v)
	if err != nil {
		s.report(c, "quiz_create", err)
		redirectErr(c, "/settings/quiz/create", "create_failed")
		return
	}
	redirectOK(c, fmt.Sprintf("/settings/quiz/%d/edit", quiz.ID), "created")
}

func (s *Server) quizEdit(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		quiz    *models.QuizDetail
		courses []models.CourseOption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { quiz, err = db.GetQuizWithQuestions(gctx, s.tesco, id); return })
	g.Go(func() (err error) { courses, err = db.ListActiveCoursesForQuiz(gctx, s.lms); return })
	if err := g.Wait(); err != nil {
		s.report(c, "quiz_edit_form", err)
		redirectErr(c, "/settings/quiz", "fetch")
		return
	}
	if quiz == nil {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	s.html(c, http.StatusOK, "settings/quiz-form", gin.H{
		"pageTitle": "Edit Quiz",
		"action":    "edit",
		"quiz":      quiz,
		"courses":   courses,
		"courseID":  courseIDString(quiz.CourseID),
	})
}

func courseIDString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// quizUpdate handles the three submit buttons: publish, draft and duplicate.
func (s *Server) quizUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	editURL := fmt.Sprintf("/settings/quiz/%d/edit", id)
	_ = c.Request.ParseForm()
	v := quizValues(c.Request.PostForm)
	ctx := c.Request.Context()

	switch c.PostForm("submit") {
	case "publish":
		v["is_publish"] = 1
	case "draft":
		v["is_publish"] = 0
	case "duplicate":
		dup, err := db.DuplicateQuiz(ctx, s.tesco, id)
		if err != nil {
			s.report(c, "quiz_duplicate", err)
		}
		if dup == nil {
			redirectErr(c, editURL, "duplicate_failed")
			return
		}
		redirectOK(c, fmt.Sprintf("/settings/quiz/%d/edit", dup.ID), "duplicated")
		return
	}

	changed, err := db.UpdateQuiz(ctx, s.tesco, id, v)
	if err != nil {
		s.report(c, "quiz_update", err)
		redirectErr(c, editURL, "update")
		return
	}
	if !changed {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	redirectOK(c, editURL, "updated")
}

func (s *Server) quizDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	deleted, err := db.DeleteQuiz(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "quiz_delete", err)
		redirectErr(c, "/settings/quiz", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/settings/quiz", "notfound")
		return
	}
	redirectOK(c, "/settings/quiz", "deleted")
}

// abcdInput carries an ABCD question. Absent fields are left untouched on update.
type abcdInput struct {
	Title          *string `json:"title" validate:"omitnil,max=2000"`
	AnswerA        *string `json:"answer_a" validate:"omitnil,max=1000"`
	AnswerB        *string `json:"answer_b" validate:"omitnil,max=1000"`
	AnswerC        *string `json:"answer_c" validate:"omitnil,max=1000"`
	AnswerD        *string `json:"answer_d" validate:"omitnil,max=1000"`
	AnswerACorrect *int    `json:"answer_a_correct" validate:"omitnil,oneof=0 1"`
	AnswerBCorrect *int    `json:"answer_b_correct" validate:"omitnil,oneof=0 1"`
	AnswerCCorrect *int    `json:"answer_c_correct" validate:"omitnil,oneof=0 1"`
	AnswerDCorrect *int    `json:"answer_d_correct" validate:"omitnil,oneof=0 1"`
	Order          *int    `json:"order" validate:"omitnil,gte=0"`
	Path           *string `json:"path"`
	Image          *string `json:"image"`
	Video          *string `json:"video"`
	MediaType      *int    `json:"media_type" validate:"omitnil,gte=1"`
	IsRandom       *int    `json:"is_random" validate:"omitnil,oneof=0 1"`
	Weight         *int    `json:"weight" validate:"omitnil,gte=0"`
}

func (in abcdInput) values() store.Values {
	v := store.Values{}
	setStr := func(k string, p *string) {
		if p != nil {
			v[k] = *p
		}
	}
	setInt := func(k string, p *int) {
		if p != nil {
			v[k] = *p
		}
	}
	setStr("title", in.Title)
	setStr("answer_a", in.AnswerA)
	setStr("answer_b", in.AnswerB)
	setStr("answer_c", in.AnswerC)
	setStr("answer_d", in.AnswerD)
	setInt("answer_a_correct", in.AnswerACorrect)
	setInt("answer_b_correct", in.AnswerBCorrect)
	setInt("answer_c_correct", in.AnswerCCorrect)
	setInt("answer_d_correct", in.AnswerDCorrect)
	setInt("order", in.Order)
	setStr("path", in.Path)
	setStr("image", in.Image)
	setStr("video", in.Video)
	setInt("media_type", in.MediaType)
	setInt("is_random", in.IsRandom)
	setInt("weight", in.Weight)
	return v
}

func (s *Server) bindAbcd(c *gin.Context) (abcdInput, error) {
	var in abcdInput
	if err := c.ShouldBindJSON(&in); err != nil {
		return in, err
	}
	return in, s.validate.Struct(in)
}

func (s *Server) quizCreateAbcd(c *gin.Context) {
	quizID, valid := paramID(c, "id")
	in, err := s.bindAbcd(c)
	if err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid question")
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		fail(c, http.StatusBadRequest, "Question title is required")
		return
	}
	defer s.lockQuiz(quizID)()

	ctx := c.Request.Context()
	question, err := db.CreateAbcd(ctx, s.tesco, quizID, in.values())
	if err != nil {
		s.internalJSON(c, "quiz_create_abcd", err, "Failed to create question")
		return
	}
	quiz, err := db.GetQuizWithQuestions(ctx, s.tesco, quizID)
	if err != nil {
		s.internalJSON(c, "quiz_create_abcd", err, "Failed to create question")
		return
	}
	questions := []models.QuestionEntry{}
	if quiz != nil {
		questions = quiz.Questions
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": question, "questions": questions})
}

func (s *Server) quizGetAbcd(c *gin.Context) {
	id, _ := paramID(c, "questionId")
	q, err := db.GetAbcd(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.internalJSON(c, "quiz_get_abcd", err, "Failed to fetch question")
		return
	}
	if q == nil {
		fail(c, http.StatusNotFound, "Question not found")
		return
	}
	ok(c, q)
}

func (s *Server) quizUpdateAbcd(c *gin.Context) {
	id, valid := paramID(c, "questionId")
	in, err := s.bindAbcd(c)
	if err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid question")
		return
	}
	ctx := c.Request.Context()
	if _, err := db.UpdateAbcd(ctx, s.tesco, id, in.values()); err != nil {
		s.internalJSON(c, "quiz_update_abcd", err, "Failed to update question")
		return
	}
	q, err := db.GetAbcd(ctx, s.tesco, id)
	if err != nil {
		s.internalJSON(c, "quiz_update_abcd", err, "Failed to update question")
		return
	}
	if q == nil {
		fail(c, http.StatusNotFound, "Question not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": q})
}

// quizDeleteQuestion removes a question. Only ABCD questions are editable
// here, so a missing type means ABCD.
func (s *Server) quizDeleteQuestion(c *gin.Context) {
	id, valid := paramID(c, "questionId")
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid question")
		return
	}
	var body struct {
		Type any `json:"type"`
	}
	_ = c.ShouldBindJSON(&body)
	raw := c.Query("type")
	if body.Type != nil {
		raw = fmt.Sprint(body.Type)
	}
	typ := models.QuestionABCD
	if raw != "" {
		t, known := models.ParseQuestionType(raw)
		if !known {
			fail(c, http.StatusBadRequest, "Unknown question type")
			return
		}
		typ = t
	}
	if typ != models.QuestionABCD {
		fail(c, http.StatusBadRequest, "Unsupported question type")
		return
	}
	if quizID, hasQuiz := paramID(c, "id"); hasQuiz {
		defer s.lockQuiz(quizID)()
	}
	if _, err := db.DeleteAbcd(c.Request.Context(), s.tesco, id); err != nil {
		s.internalJSON(c, "quiz_delete_question", err, "Failed to delete question")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// lockQuiz serialises question edits of one quiz. Negative keys keep quiz ids
// apart from the course ids sharing s.locks.
func (s *Server) lockQuiz(quizID int64) func() { return s.locks.Lock(-quizID) }

type reorderRequest struct {
	Orders []db.QuestionOrder `json:"orders" validate:"required,dive"`
}

func (s *Server) quizReorderQuestions(c *gin.Context) {
	quizID, valid := paramID(c, "id")
	var req reorderRequest
	if err := s.bind(c, &req); err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid order")
		return
	}
	defer s.lockQuiz(quizID)()

	if err := db.ReorderQuestions(c.Request.Context(), s.tesco, quizID, req.Orders); err != nil {
		s.internalJSON(c, "quiz_reorder", err, "Failed to reorder questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) quizAPIList(c *gin.Context) {
	q := c.Request.URL.Query()
	page, err := db.ListQuizzes(c.Request.Context(), s.tesco, quizFilter(q), pagination.FromQuery(q, pagination.APIOpts))
	if err != nil {
		s.internalJSON(c, "quiz_api_list", err, "Failed to fetch quizzes")
		return
	}
	okPage(c, page)
}

func (s *Server) quizAPIGet(c *gin.Context) {
	id, _ := paramID(c, "id")
	quiz, err := db.GetQuizWithQuestions(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.internalJSON(c, "quiz_api_get", err, "Failed to fetch quiz")
		return
	}
	if quiz == nil {
		fail(c, http.StatusNotFound, "Quiz not found")
		return
	}
	ok(c, quiz)
}
