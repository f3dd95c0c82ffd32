package app

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lotuss-academy/lms-admin/internal/models"
)

func TestUserValues_OnlyEditablePresentFields(t *testing.T) {
	v := userValues(url.Values{
		"first_name":  {" Somchai "},
		"status":      {"1"},
		"is_inactive": {"x"},
		"type":        {"2"},
		"employee_id": {"LTS-1"},
		"company":     {"makro"},
	})
	assert.Equal(t, "Somchai", v["first_name"])
	assert.Equal(t, 1, v["status"])
	assert.Equal(t, 2, v["type"])
	assert.NotContains(t, v, "is_inactive")
	assert.NotContains(t, v, "employee_id")
	assert.NotContains(t, v, "company")
	assert.NotContains(t, v, "email")
}

func TestUserFilter(t *testing.T) {
	f := userFilter(url.Values{"keyword": {"som"}, "format_id": {"3"}, "is_inactive": {"0"}})
	assert.Equal(t, "som", f.Keyword)
	assert.Equal(t, int64(3), *f.FormatID)
	assert.Equal(t, 0, *f.IsInactive)
	assert.Nil(t, f.Status)
	assert.Equal(t, models.CompanyLotus, f.Company)

	f = userFilter(url.Values{"k": {"a"}, "company": {"all"}})
	assert.Equal(t, "a", f.Keyword)
	assert.Equal(t, models.CompanyAll, f.Company)
}

func TestUserAPISearch_ShortQuery(t *testing.T) {
	s := newTestServer(t)
	r := gin.New()
	r.GET("/user/api/search", s.userAPISearch)

	for _, q := range []string{"", "a", "ก"} {
		w := do(r, http.MethodGet, "/user/api/search?q="+url.QueryEscape(q), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	}
}
