package app

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/lotuss-academy/lms-admin/internal/ctxutil"
	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/export"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func userFilter(q url.Values) db.UserFilter {
	kw := q.Get("k")
	if kw == "" {
		kw = q.Get("keyword")
	}
	return db.UserFilter{
		Keyword:    kw,
		FormatID:   optInt64(q.Get("format_id")),
		Status:     optInt(q.Get("status")),
		Type:       optInt(q.Get("type")),
		IsInactive: optInt(q.Get("is_inactive")),
		Company:    models.ParseCompany(q.Get("company")),
	}
}

func (s *Server) userList(c *gin.Context) {
	q := c.Request.URL.Query()
	f := userFilter(q)
	p := pagination.New(pageParam(q), 0, pagination.UserOpts)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		page    pagination.Page[models.UserRow]
		formats []models.Option
		userSt  models.UserStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { page, err = db.ListUsers(gctx, s.tesco, f, p); return })
	g.Go(func() (err error) { formats, err = db.FormatNames(gctx, s.tesco); return })
	g.Go(func() (err error) { userSt, err = db.UserStats(gctx, s.tesco, f.Company); return })

	data := gin.H{
		"pageTitle": "User Management",
		"company":   f.Company,
		"companies": models.Companies,
		"userTypes": models.UserTypes,
		"exportURL": "/user/export?" + q.Encode(),
	}
	if err := g.Wait(); err != nil {
		s.report(c, "user_list", err)
		page = pagination.NewPage[models.UserRow](nil, 0, p)
		formats, userSt = nil, models.UserStats{}
		data["error"] = "Failed to load users"
	}
	data["users"] = page.Data
	data["pagination"] = page.Pagination
	data["formats"] = formats
	data["stats"] = userSt
	s.html(c, http.StatusOK, "user/list", data)
}

func (s *Server) userExport(c *gin.Context) {
	f := userFilter(c.Request.URL.Query())
	users, err := db.UsersForExport(c.Request.Context(), s.tesco, f)
	if err != nil {
		s.report(c, "user_export", err)
		redirectErr(c, "/user", "export")
		return
	}
	wb, err := export.UsersWorkbook(users)
	if err != nil {
		s.report(c, "user_export", err)
		redirectErr(c, "/user", "export")
		return
	}
	defer func() { _ = wb.Close() }()

	name := export.UsersFilename(f.Company, time.Now().In(s.cfg.Location))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Status(http.StatusOK)
	if _, err := wb.WriteTo(c.Writer); err != nil {
		s.report(c, "user_export_write", err)
	}
}

func (s *Server) userShow(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/user", "notfound")
		return
	}
	q := c.Request.URL.Query()
	p := pagination.New(pageParam(q), 0, pagination.HistoryOpts)
	ctx, cancel := ctxutil.WithDBTimeout(c.Request.Context())
	defer cancel()

	var (
		user    *models.UserRow
		history pagination.Page[models.CourseHistory]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { user, err = db.GetUser(gctx, s.tesco, id); return })
	g.Go(func() (err error) { history, err = db.CourseHistory(gctx, s.tesco, id, p); return })
	if err := g.Wait(); err != nil {
		s.report(c, "user_show", err)
		redirectErr(c, "/user", "fetch")
		return
	}
	if user == nil {
		redirectErr(c, "/user", "notfound")
		return
	}
	s.html(c, http.StatusOK, "user/view", gin.H{
		"pageTitle":  user.DisplayName(),
		"profile":    user,
		"history":    history.Data,
		"pagination": history.Pagination,
	})
}

func (s *Server) userEdit(c *gin.Context) {
	id, _ := paramID(c, "id")
	user, err := db.GetUser(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "user_edit_form", err)
		redirectErr(c, "/user", "fetch")
		return
	}
	if user == nil {
		redirectErr(c, "/user", "notfound")
		return
	}
	s.html(c, http.StatusOK, "user/edit", gin.H{
		"pageTitle": "Edit User",
		"profile":   user,
		"userTypes": models.UserTypes,
	})
}

var userIntFields = map[string]bool{"status": true, "is_inactive": true, "type": true}

// userValues keeps only the editable fields the form actually sent.
func userValues(form url.Values) store.Values {
	v := store.Values{}
	for _, k := range db.UserFields {
		raw, present := form[k]
		if !present || len(raw) == 0 {
			continue
		}
		val := strings.TrimSpace(raw[0])
		if userIntFields[k] {
			n, err := strconv.Atoi(val)
			if err != nil {
				continue
			}
			v[k] = n
			continue
		}
		v[k] = val
	}
	return v
}

func (s *Server) userUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/user", "notfound")
		return
	}
	_ = c.Request.ParseForm()
	user, err := db.UpdateUser(c.Request.Context(), s.tesco, id, userValues(c.Request.PostForm))
	if err != nil {
		s.report(c, "user_update", err)
		redirectErr(c, fmt.Sprintf("/user/%d/edit", id), "update")
		return
	}
	if user == nil {
		redirectErr(c, "/user", "notfound")
		return
	}
	redirectOK(c, fmt.Sprintf("/user/%d", id), "updated")
}

func (s *Server) userDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/user", "notfound")
		return
	}
	deleted, err := db.DeleteUser(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "user_delete", err)
		redirectErr(c, "/user", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/user", "notfound")
		return
	}
	redirectOK(c, "/user", "deleted")
}

type userSearchItem struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (s *Server) userAPISearch(c *gin.Context) {
	kw := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(kw) < 2 {
		ok(c, []userSearchItem{})
		return
	}
	hits, err := db.SearchUsers(c.Request.Context(), s.tesco, kw, 20)
	if err != nil {
		s.internalJSON(c, "user_search", err, "Failed to search users")
		return
	}
	items := make([]userSearchItem, len(hits))
	for i, h := range hits {
		name := h.DisplayName()
		items[i] = userSearchItem{
			ID:         h.ID,
			Text:       h.EmployeeID + " - " + name,
			EmployeeID: h.EmployeeID,
			Name:       name,
			Position:   h.Position,
			Department: h.Department,
		}
	}
	ok(c, items)
}

func (s *Server) userAPIStats(c *gin.Context) {
	st, err := db.UserStats(c.Request.Context(), s.tesco, models.ParseCompany(c.Query("company")))
	if err != nil {
		s.internalJSON(c, "user_stats", err, "Failed to fetch user statistics")
		return
	}
	ok(c, st)
}

func (s *Server) userAPIGet(c *gin.Context) {
	id, _ := paramID(c, "id")
	user, err := db.GetUser(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.internalJSON(c, "user_api_get", err, "Failed to fetch user")
		return
	}
	if user == nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, user)
}

func (s *Server) userAPICourses(c *gin.Context) {
	id, _ := paramID(c, "id")
	page, err := db.CourseHistory(c.Request.Context(), s.tesco, id, pagination.FromQuery(c.Request.URL.Query(), pagination.HistoryOpts))
	if err != nil {
		s.internalJSON(c, "user_api_courses", err, "Failed to fetch course history")
		return
	}
	okPage(c, page)
}
