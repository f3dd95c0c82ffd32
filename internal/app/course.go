package app

import (
	"errors"
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

const (
	msgCourseNameRequired = "Course name is required"
	msgCourseCodeExists   = "Course code already exists"
)

func (s *Server) courseList(c *gin.Context) {
	q := c.Request.URL.Query()
	f := db.CourseFilter{Keyword: q.Get("k"), Status: optInt(q.Get("status")), Type: optInt(q.Get("type"))}
	p := pagination.New(pageParam(q), 20, pagination.CourseOpts)

	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		page     pagination.Page[models.CourseListItem]
		courseSt models.CourseStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { page, err = db.ListCourses(gctx, s.lms, f, p); return })
	g.Go(func() (err error) { courseSt, err = db.CourseStats(gctx, s.lms); return })

	data := gin.H{
		"pageTitle": "Course Management",
		"statuses":  models.CourseStatuses,
		"types":     models.CourseTypes,
	}
	if err := g.Wait(); err != nil {
		s.report(c, "course_list", err)
		page = pagination.NewPage[models.CourseListItem](nil, 0, p)
		courseSt = models.CourseStats{}
		data["error"] = "Failed to load courses"
	}
	data["courses"] = page.Data
	data["pagination"] = page.Pagination
	data["stats"] = courseSt
	s.html(c, http.StatusOK, "course/list", data)
}

func pageParam(q url.Values) int {
	n, _ := strconv.Atoi(q.Get("page"))
	return n
}

// courseFormData is what the create and edit pages share.
func (s *Server) courseFormData(title, action string, form url.Values) gin.H {
	return gin.H{
		"pageTitle":       title,
		"action":          action,
		"form":            form,
		"statuses":        models.CourseStatuses,
		"types":           models.CourseTypes,
		"documentTypes":   models.DocumentTypes,
		"courseDocuments": []models.LinkedDocument{},
		"allPositions":    []models.Position{},
		"positionIds":     []int64{},
	}
}

func (s *Server) courseCreate(c *gin.Context) {
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	positions, err := db.ListPositions(ctx, s.lms)
	if err != nil {
		s.report(c, "course_create_form", err)
		redirectErr(c, "/course", "fetch")
		return
	}
	data := s.courseFormData("Create Course", "create", url.Values{"status": {"2"}, "type": {"1"}})
	data["allPositions"] = positions
	s.html(c, http.StatusOK, "course/form", data)
}

func (s *Server) courseStore(c *gin.Context) {
	_ = c.Request.ParseForm()
	v := courseValues(c.Request.PostForm)
	rerender := func(msg string) {
		data := s.courseFormData("Create Course", "create", c.Request.PostForm)
		data["error"] = msg
		s.html(c, http.StatusOK, "course/form", data)
	}
	if v["name"] == nil {
		rerender(msgCourseNameRequired)
		return
	}

	uid := int64(1)
	if u := currentUser(c); u != nil {
		uid = u.ID
	}
	v["user_id"] = uid
	v["department_id"] = int64(1)

	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()
	if _, err := db.CreateCourse(ctx, s.lms, v); err != nil {
		if errors.Is(err, db.ErrCodeExists) {
			rerender(msgCourseCodeExists)
			return
		}
		s.report(c, "course_create", err)
		rerender("Failed to create course")
		return
	}
	redirectOK(c, "/course", "created")
}

func (s *Server) courseEdit(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/course", "notfound")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		course    *models.Course
		docs      []models.LinkedDocument
		linked    []models.CoursePosition
		positions []models.Position
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { course, err = db.GetCourse(gctx, s.lms, id); return })
	g.Go(func() (err error) { docs, err = db.LinkedDocuments(gctx, s.lms, id); return })
	g.Go(func() (err error) { linked, err = db.CoursePositionList(gctx, s.lms, id); return })
	g.Go(func() (err error) { positions, err = db.ListPositions(gctx, s.lms); return })
	if err := g.Wait(); err != nil {
		s.report(c, "course_edit_form", err)
		redirectErr(c, "/course", "fetch")
		return
	}
	if course == nil {
		redirectErr(c, "/course", "notfound")
		return
	}

	ids := make([]int64, len(linked))
	for i, p := range linked {
		ids[i] = p.PositionID
	}
	data := s.courseFormData("Edit Course", "edit", formValues(db.CourseValues(*course)))
	data["course"] = course
	data["courseDocuments"] = docs
	data["coursePositions"] = linked
	data["allPositions"] = positions
	data["positionIds"] = ids
	s.html(c, http.StatusOK, "course/form", data)
}

func (s *Server) courseUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/course", "notfound")
		return
	}
	_ = c.Request.ParseForm()
	v := courseValues(c.Request.PostForm)

	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	rerender := func(msg string) {
		form, course := url.Values{}, &models.Course{ID: id}
		if stored, err := db.GetCourse(ctx, s.lms, id); err == nil && stored != nil {
			form, course = formValues(db.CourseValues(*stored)), stored
		}
		for k, vals := range c.Request.PostForm {
			form[k] = vals
		}
		data := s.courseFormData("Edit Course", "edit", form)
		data["course"] = course
		data["error"] = msg
		s.html(c, http.StatusOK, "course/form", data)
	}
	if v["name"] == nil {
		rerender(msgCourseNameRequired)
		return
	}
	changed, err := db.UpdateCourse(ctx, s.lms, id, v)
	if err != nil {
		if errors.Is(err, db.ErrCodeExists) {
			rerender(msgCourseCodeExists)
			return
		}
		s.report(c, "course_update", err)
		redirectErr(c, fmt.Sprintf("/course/%d/edit", id), "update")
		return
	}
	if !changed {
		redirectErr(c, "/course", "notfound")
		return
	}
	redirectOK(c, "/course", "updated")
}

func (s *Server) courseDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/course", "notfound")
		return
	}
	deleted, err := db.DeleteCourse(c.Request.Context(), s.lms, id)
	if err != nil {
		s.report(c, "course_delete", err)
		redirectErr(c, "/course", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/course", "notfound")
		return
	}
	redirectOK(c, "/course", "deleted")
}

func (s *Server) courseDuplicate(c *gin.Context) {
	id, _ := paramID(c, "id")
	dup, err := db.DuplicateCourse(c.Request.Context(), s.lms, id)
	if err != nil {
		s.report(c, "course_duplicate", err)
	}
	if dup == nil {
		redirectErr(c, "/course", "duplicate")
		return
	}
	redirectOK(c, fmt.Sprintf("/course/%d/edit", dup.ID), "duplicated")
}

// courseValues maps a submitted course form onto columns. Empty text becomes
// NULL, flag fields are 1 only for "1", and the switch fields are 1 when present.
func courseValues(form url.Values) store.Values {
	text := func(k string) any { return textOrNil(form.Get(k)) }
	flag := func(k string) int {
		if form.Get(k) == "1" {
			return 1
		}
		return 0
	}
	present := func(k string) int {
		if form.Get(k) != "" {
			return 1
		}
		return 0
	}
	num := func(k string) any {
		if n := optInt64(form.Get(k)); n != nil {
			return *n
		}
		return nil
	}

	status := models.CourseDraft
	raw := form.Get("status_action")
	if raw == "" {
		raw = form.Get("status")
	}
	if n := optInt(raw); n != nil && *n >= int(models.CourseInactive) && *n <= int(models.CourseDraft) {
		status = models.CourseStatus(*n)
	}
	typ := models.CourseNormal
	if n := optInt(form.Get("type")); n != nil && *n >= int(models.CourseNormal) && *n <= int(models.CourseSCORM2004v3) {
		typ = models.CourseType(*n)
	}

	return store.Values{
		"name":                 textOrNil(strings.TrimSpace(form.Get("name"))),
		"course_code":          textOrNil(strings.TrimSpace(form.Get("course_code"))),
		"expire_at":            num("expire_at"),
		"totaltopic":           num("totaltopic"),
		"keywords":             text("keywords"),
		"courselevel":          text("courselevel"),
		"howtopass":            text("howtopass"),
		"description":          text("description"),
		"toc":                  text("toc"),
		"howto":                text("howto"),
		"targetlearner":        text("targetlearner"),
		"pretest":              flag("pretest"),
		"pre_testing":          text("pre_testing"),
		"pretest_description":  text("pretest_description"),
		"class_description":    text("class_description"),
		"posttest":             flag("posttest"),
		"post_testing":         text("post_testing"),
		"posttest_description": text("posttest_description"),
		"homework":             flag("homework"),
		"example_description":  text("example_description"),
		"sendemail":            flag("sendemail"),
		"evaluate_link":        text("evaluate_link"),
		"email_template":       text("email_template"),
		"status":               int(status),
		"type":                 int(typ),
		"course_show":          text("course_show"),
		"course_access":        text("course_access"),
		"course_group":         text("course_group"),
		"is_register":          present("is_register"),
		"delete_all":           present("delete_all"),
		"fullscreen":           present("fullscreen"),
		"is_certificated":      present("is_certificated"),
		"is_document_lock":     present("is_document_lock"),
	}
}

// formValues renders stored values back into form fields.
func formValues(v store.Values) url.Values {
	out := url.Values{}
	for k, val := range v {
		switch x := val.(type) {
		case nil:
			out.Set(k, "")
		case *string:
			if x != nil {
				out.Set(k, *x)
			}
		case *int64:
			if x != nil {
				out.Set(k, strconv.FormatInt(*x, 10))
			}
		default:
			out.Set(k, fmt.Sprint(x))
		}
	}
	return out
}

// JSON API

func (s *Server) courseAPIList(c *gin.Context) {
	q := c.Request.URL.Query()
	kw := q.Get("keyword")
	if kw == "" {
		kw = q.Get("k")
	}
	f := db.CourseFilter{Keyword: kw, Status: optInt(q.Get("status")), Type: optInt(q.Get("type"))}
	page, err := db.ListCourses(c.Request.Context(), s.lms, f, pagination.FromQuery(q, pagination.APIOpts))
	if err != nil {
		s.internalJSON(c, "course_api_list", err, "Failed to fetch courses")
		return
	}
	okPage(c, page)
}

func (s *Server) courseAPIGet(c *gin.Context) {
	id, _ := paramID(c, "id")
	course, err := db.GetCourse(c.Request.Context(), s.lms, id)
	if err != nil {
		s.internalJSON(c, "course_api_get", err, "Failed to fetch course")
		return
	}
	if course == nil {
		fail(c, http.StatusNotFound, "Course not found")
		return
	}
	ok(c, course)
}

type documentHit struct {
	models.Document
	TypeLabel string `json:"typeLabel"`
	TypeIcon  string `json:"typeIcon"`
}

func (s *Server) courseSearchDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	var exclude []int64
	if courseID := optInt64(c.Query("courseId")); courseID != nil {
		ids, err := db.LinkedDocumentIDs(ctx, s.lms, *courseID)
		if err != nil {
			s.internalJSON(c, "course_search_documents", err, "Failed to search documents")
			return
		}
		exclude = ids
	}
	docType := 0
	if t := optInt(c.Query("type")); t != nil {
		docType = *t
	}
	docs, err := db.SearchDocuments(ctx, s.lms, c.Query("k"), docType, exclude)
	if err != nil {
		s.internalJSON(c, "course_search_documents", err, "Failed to search documents")
		return
	}
	out := make([]documentHit, len(docs))
	for i, d := range docs {
		out[i] = documentHit{Document: d, TypeLabel: d.Type.Label(), TypeIcon: d.Type.Icon()}
	}
	ok(c, out)
}

func (s *Server) courseDocuments(c *gin.Context) {
	id, _ := paramID(c, "id")
	docs, err := db.LinkedDocuments(c.Request.Context(), s.lms, id)
	if err != nil {
		s.internalJSON(c, "course_documents", err, "Failed to fetch documents")
		return
	}
	ok(c, docs)
}

type documentLinkRequest struct {
	DocumentID int64 `json:"documentId" form:"documentId" validate:"required,gt=0"`
}

type documentOrderRequest struct {
	DocumentIDs []int64 `json:"documentIds" form:"documentIds" validate:"required,dive,gt=0"`
}

type positionSyncRequest struct {
	PositionIDs []int64 `json:"positionIds" form:"positionIds" validate:"omitempty,dive,gt=0"`
}

// bind decodes the body by content type and validates it.
func (s *Server) bind(c *gin.Context, req any) error {
	if err := c.ShouldBind(req); err != nil {
		return err
	}
	return s.validate.Struct(req)
}

func (s *Server) courseAddDocument(c *gin.Context) {
	s.editCourseDocuments(c, "course_add_document", "Failed to add document",
		func(courseID, docID int64) error {
			_, err := db.AddCourseDocument(c.Request.Context(), s.lms, courseID, docID)
			return err
		})
}

func (s *Server) courseRemoveDocument(c *gin.Context) {
	s.editCourseDocuments(c, "course_remove_document", "Failed to remove document",
		func(courseID, docID int64) error {
			_, err := db.RemoveCourseDocument(c.Request.Context(), s.lms, courseID, docID)
			return err
		})
}

func (s *Server) editCourseDocuments(c *gin.Context, op, msg string, apply func(courseID, docID int64) error) {
	courseID, valid := paramID(c, "id")
	var req documentLinkRequest
	if err := s.bind(c, &req); err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid document")
		return
	}
	unlock := s.locks.Lock(courseID)
	defer unlock()

	if err := apply(courseID, req.DocumentID); err != nil {
		s.internalJSON(c, op, err, msg)
		return
	}
	docs, err := db.LinkedDocuments(c.Request.Context(), s.lms, courseID)
	if err != nil {
		s.internalJSON(c, op, err, msg)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": docs})
}

func (s *Server) courseOrderDocuments(c *gin.Context) {
	courseID, valid := paramID(c, "id")
	var req documentOrderRequest
	if err := s.bind(c, &req); err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid document order")
		return
	}
	unlock := s.locks.Lock(courseID)
	defer unlock()

	if err := db.ReorderCourseDocuments(c.Request.Context(), s.lms, courseID, req.DocumentIDs); err != nil {
		s.internalJSON(c, "course_order_documents", err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) courseSearchPositions(c *gin.Context) {
	var (
		positions []models.Position
		err       error
	)
	if k := strings.TrimSpace(c.Query("k")); k != "" {
		positions, err = db.SearchPositions(c.Request.Context(), s.lms, k)
	} else {
		positions, err = db.ListPositions(c.Request.Context(), s.lms)
	}
	if err != nil {
		s.internalJSON(c, "course_search_positions", err, "Failed to search positions")
		return
	}
	ok(c, positions)
}

func (s *Server) coursePositions(c *gin.Context) {
	id, _ := paramID(c, "id")
	positions, err := db.CoursePositionList(c.Request.Context(), s.lms, id)
	if err != nil {
		s.internalJSON(c, "course_positions", err, "Failed to fetch positions")
		return
	}
	ok(c, positions)
}

func (s *Server) courseSyncPositions(c *gin.Context) {
	courseID, valid := paramID(c, "id")
	var req positionSyncRequest
	if err := s.bind(c, &req); err != nil || !valid {
		fail(c, http.StatusBadRequest, "Invalid positions")
		return
	}
	unlock := s.locks.Lock(courseID)
	defer unlock()

	ctx := c.Request.Context()
	if err := db.SyncCoursePositions(ctx, s.lms, courseID, req.PositionIDs); err != nil {
		s.internalJSON(c, "course_sync_positions", err, "Failed to sync positions")
		return
	}
	positions, err := db.CoursePositionList(ctx, s.lms, courseID)
	if err != nil {
		s.internalJSON(c, "course_sync_positions", err, "Failed to sync positions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": positions, "message": "Positions updated"})
}
