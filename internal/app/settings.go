package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

// orgValues reads the fields shared by format, functions and department forms.
func orgValues(c *gin.Context) store.Values {
	return store.Values{
		"name":   strings.TrimSpace(c.PostForm("name")),
		"order":  orderValue(c.PostForm("order")),
		"status": checkbox(c.PostForm("status")),
	}
}

// parentID reads a required parent reference, zero when absent or malformed.
func parentID(c *gin.Context, field string) int64 {
	if id := optInt64(c.PostForm(field)); id != nil && *id > 0 {
		return *id
	}
	return 0
}

// --- format ---

func (s *Server) formatList(c *gin.Context) {
	formats, err := db.FormatsWithFunctionsCount(c.Request.Context(), s.tesco)
	data := gin.H{"pageTitle": "Formats"}
	if err != nil {
		s.report(c, "format_list", err)
		data["error"] = "Failed to load formats"
	}
	data["formats"] = formats
	s.html(c, http.StatusOK, "settings/format-list", data)
}

func (s *Server) formatForm(c *gin.Context, status int, format *models.Format, errMsg string) {
	data := gin.H{"pageTitle": "Create Format", "format": format}
	if format != nil && format.ID > 0 {
		data["pageTitle"] = "Edit Format"
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	s.html(c, status, "settings/format-form", data)
}

func (s *Server) formatCreate(c *gin.Context) {
	s.formatForm(c, http.StatusOK, nil, "")
}

// formatFromValues echoes submitted values back into the form.
func formatFromValues(id int64, v store.Values) *models.Format {
	name, _ := v["name"].(string)
	order, _ := v["order"].(int)
	st, _ := v["status"].(int)
	return &models.Format{ID: id, Name: name, Order: order, Status: st}
}

func (s *Server) formatStore(c *gin.Context) {
	v := orgValues(c)
	if v["name"] == "" {
		s.formatForm(c, http.StatusOK, formatFromValues(0, v), "Format name is required")
		return
	}
	_, err := db.CreateFormat(c.Request.Context(), s.tesco, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		s.formatForm(c, http.StatusOK, formatFromValues(0, v), "Format name already exists")
		return
	case err != nil:
		s.report(c, "format_create", err)
		redirectErr(c, "/settings/format/create", "create")
		return
	}
	redirectOK(c, "/settings/format", "created")
}

func (s *Server) formatEdit(c *gin.Context) {
	id, _ := paramID(c, "id")
	format, err := db.GetFormat(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "format_edit_form", err)
		redirectErr(c, "/settings/format", "fetch")
		return
	}
	if format == nil {
		redirectErr(c, "/settings/format", "notfound")
		return
	}
	s.formatForm(c, http.StatusOK, format, "")
}

func (s *Server) formatUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/format", "notfound")
		return
	}
	v := orgValues(c)
	if v["name"] == "" {
		s.formatForm(c, http.StatusOK, formatFromValues(id, v), "Format name is required")
		return
	}
	changed, err := db.UpdateFormat(c.Request.Context(), s.tesco, id, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		s.formatForm(c, http.StatusOK, formatFromValues(id, v), "Format name already exists")
		return
	case err != nil:
		s.report(c, "format_update", err)
		redirectErr(c, fmt.Sprintf("/settings/format/%d/edit", id), "update")
		return
	}
	if !changed {
		redirectErr(c, "/settings/format", "notfound")
		return
	}
	redirectOK(c, "/settings/format", "updated")
}

func (s *Server) formatDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/format", "notfound")
		return
	}
	deleted, err := db.DeleteFormat(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "format_delete", err)
		redirectErr(c, "/settings/format", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/settings/format", "notfound")
		return
	}
	redirectOK(c, "/settings/format", "deleted")
}

// --- functions ---

func (s *Server) functionsList(c *gin.Context) {
	list, err := db.FunctionsWithFormat(c.Request.Context(), s.tesco)
	data := gin.H{"pageTitle": "Functions"}
	if err != nil {
		s.report(c, "functions_list", err)
		data["error"] = "Failed to load functions"
	}
	data["functions"] = list
	s.html(c, http.StatusOK, "settings/functions-list", data)
}

func (s *Server) functionsForm(c *gin.Context, fn *models.Functions, errMsg string) {
	formats, err := db.FormatOptions(c.Request.Context(), s.tesco)
	if err != nil {
		s.report(c, "functions_form", err)
		redirectErr(c, "/settings/functions", "fetch")
		return
	}
	data := gin.H{"pageTitle": "Create Function", "functions": fn, "formats": formats}
	if fn != nil && fn.ID > 0 {
		data["pageTitle"] = "Edit Function"
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	s.html(c, http.StatusOK, "settings/functions-form", data)
}

func functionsValues(c *gin.Context) store.Values {
	v := orgValues(c)
	v["format_id"] = parentID(c, "format_id")
	v["color"] = textOrNil(strings.TrimSpace(c.PostForm("color")))
	return v
}

func functionsFromValues(id int64, v store.Values) *models.Functions {
	f := formatFromValues(id, v)
	fn := &models.Functions{ID: id, Name: f.Name, Order: f.Order, Status: f.Status}
	fn.FormatID, _ = v["format_id"].(int64)
	fn.Color, _ = v["color"].(string)
	return fn
}

func (s *Server) functionsCreate(c *gin.Context) {
	fn := &models.Functions{Status: 1}
	if id := optInt64(c.Query("format_id")); id != nil {
		fn.FormatID = *id
	}
	s.functionsForm(c, fn, "")
}

func (s *Server) functionsStore(c *gin.Context) {
	v := functionsValues(c)
	if v["name"] == "" || v["format_id"] == int64(0) {
		s.functionsForm(c, functionsFromValues(0, v), "Format and Function name are required")
		return
	}
	_, err := db.CreateFunctions(c.Request.Context(), s.tesco, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		s.functionsForm(c, functionsFromValues(0, v), "Function name already exists in this format")
		return
	case err != nil:
		s.report(c, "functions_create", err)
		redirectErr(c, "/settings/functions/create", "create")
		return
	}
	redirectOK(c, "/settings/functions", "created")
}

func (s *Server) functionsEdit(c *gin.Context) {
	id, _ := paramID(c, "id")
	fn, err := db.GetFunctions(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "functions_edit_form", err)
		redirectErr(c, "/settings/functions", "fetch")
		return
	}
	if fn == nil {
		redirectErr(c, "/settings/functions", "notfound")
		return
	}
	s.functionsForm(c, &fn.Functions, "")
}

func (s *Server) functionsUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/functions", "notfound")
		return
	}
	editURL := fmt.Sprintf("/settings/functions/%d/edit", id)
	v := functionsValues(c)
	if v["name"] == "" || v["format_id"] == int64(0) {
		redirectErr(c, editURL, "validation")
		return
	}
	changed, err := db.UpdateFunctions(c.Request.Context(), s.tesco, id, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		redirectErr(c, editURL, "exists")
		return
	case err != nil:
		s.report(c, "functions_update", err)
		redirectErr(c, editURL, "update")
		return
	}
	if !changed {
		redirectErr(c, "/settings/functions", "notfound")
		return
	}
	redirectOK(c, "/settings/functions", "updated")
}

func (s *Server) functionsDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/functions", "notfound")
		return
	}
	deleted, err := db.DeleteFunctions(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "functions_delete", err)
		redirectErr(c, "/settings/functions", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/settings/functions", "notfound")
		return
	}
	redirectOK(c, "/settings/functions", "deleted")
}

// --- department ---

func (s *Server) departmentList(c *gin.Context) {
	list, err := db.DepartmentsWithRelations(c.Request.Context(), s.tesco)
	data := gin.H{"pageTitle": "Departments"}
	if err != nil {
		s.report(c, "department_list", err)
		data["error"] = "Failed to load departments"
	}
	data["departments"] = list
	s.html(c, http.StatusOK, "settings/department-list", data)
}

func (s *Server) departmentForm(c *gin.Context, d *models.Department, errMsg string) {
	functions, err := db.FunctionOptions(c.Request.Context(), s.tesco)
	if err != nil {
		s.report(c, "department_form", err)
		redirectErr(c, "/settings/department", "fetch")
		return
	}
	data := gin.H{"pageTitle": "Create Department", "department": d, "functions": functions}
	if d != nil && d.ID > 0 {
		data["pageTitle"] = "Edit Department"
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	s.html(c, http.StatusOK, "settings/department-form", data)
}

func departmentValues(c *gin.Context) store.Values {
	v := orgValues(c)
	v["functions_id"] = parentID(c, "functions_id")
	return v
}

func departmentFromValues(id int64, v store.Values) *models.Department {
	f := formatFromValues(id, v)
	d := &models.Department{ID: id, Name: f.Name, Order: f.Order, Status: f.Status}
	d.FunctionsID, _ = v["functions_id"].(int64)
	return d
}

func (s *Server) departmentCreate(c *gin.Context) {
	d := &models.Department{Status: 1}
	if id := optInt64(c.Query("functions_id")); id != nil {
		d.FunctionsID = *id
	}
	s.departmentForm(c, d, "")
}

func (s *Server) departmentStore(c *gin.Context) {
	v := departmentValues(c)
	if v["name"] == "" || v["functions_id"] == int64(0) {
		s.departmentForm(c, departmentFromValues(0, v), "Function and Department name are required")
		return
	}
	_, err := db.CreateDepartment(c.Request.Context(), s.tesco, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		s.departmentForm(c, departmentFromValues(0, v), "Department name already exists in this function")
		return
	case err != nil:
		s.report(c, "department_create", err)
		redirectErr(c, "/settings/department/create", "create")
		return
	}
	redirectOK(c, "/settings/department", "created")
}

func (s *Server) departmentEdit(c *gin.Context) {
	id, _ := paramID(c, "id")
	d, err := db.GetDepartment(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "department_edit_form", err)
		redirectErr(c, "/settings/department", "fetch")
		return
	}
	if d == nil {
		redirectErr(c, "/settings/department", "notfound")
		return
	}
	s.departmentForm(c, &d.Department, "")
}

func (s *Server) departmentUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/department", "notfound")
		return
	}
	editURL := fmt.Sprintf("/settings/department/%d/edit", id)
	v := departmentValues(c)
	if v["name"] == "" || v["functions_id"] == int64(0) {
		redirectErr(c, editURL, "validation")
		return
	}
	changed, err := db.UpdateDepartment(c.Request.Context(), s.tesco, id, v)
	switch {
	case errors.Is(err, db.ErrNameExists):
		redirectErr(c, editURL, "exists")
		return
	case err != nil:
		s.report(c, "department_update", err)
		redirectErr(c, editURL, "update")
		return
	}
	if !changed {
		redirectErr(c, "/settings/department", "notfound")
		return
	}
	redirectOK(c, "/settings/department", "updated")
}

func (s *Server) departmentDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		redirectErr(c, "/settings/department", "notfound")
		return
	}
	deleted, err := db.DeleteDepartment(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "department_delete", err)
		redirectErr(c, "/settings/department", "delete")
		return
	}
	if !deleted {
		redirectErr(c, "/settings/department", "notfound")
		return
	}
	redirectOK(c, "/settings/department", "deleted")
}

// --- cascading selects ---

func (s *Server) apiFunctionsByFormat(c *gin.Context) {
	id, _ := paramID(c, "formatId")
	list, err := db.FunctionsByFormat(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "api_functions_by_format", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch functions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) apiDepartmentsByFunction(c *gin.Context) {
	id, _ := paramID(c, "functionsId")
	list, err := db.DepartmentsByFunction(c.Request.Context(), s.tesco, id)
	if err != nil {
		s.report(c, "api_departments_by_function", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}
	c.JSON(http.StatusOK, list)
}
