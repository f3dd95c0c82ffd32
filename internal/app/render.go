package app

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/lotuss-academy/lms-admin/internal/pagination"
)

//go:embed templates
var templateFS embed.FS

const pagesDir = "templates/pages/"

// standalone pages are rendered without the shared layout.
var standalone = map[string]bool{"login": true, "login-form": true}

type view struct {
	t     *template.Template
	entry string
}

// Views maps a page name such as "course/list" to its parsed template set.
// It satisfies gin's render.HTMLRender.
type Views struct {
	pages map[string]view
}

func LoadViews() (*Views, error) {
	base, err := template.New("layout").Funcs(funcMap()).
		ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	v := &Views{pages: map[string]view{}}
	err = fs.WalkDir(templateFS, strings.TrimSuffix(pagesDir, "/"), func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir), ".html")
		if standalone[name] {
			t, err := template.New(path.Base(p)).Funcs(funcMap()).ParseFS(templateFS, p)
			if err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			v.pages[name] = view{t: t, entry: path.Base(p)}
			return nil
		}
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = view{t: t, entry: "layout"}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Views) Instance(name string, data any) render.Render {
	p, ok := v.pages[name]
	if !ok {
		return render.String{Format: "unknown view %q", Data: []any{name}}
	}
	return render.HTML{Template: p.t, Name: p.entry, Data: data}
}

// html renders a page with the request-wide values every layout needs.
func (s *Server) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = currentUser(c)
	data["query"] = c.Request.URL.Query()
	data["path"] = c.Request.URL.Path
	c.Render(status, s.views.Instance(name, data))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"pages":    func(m pagination.Meta) []int { return m.Pages(2) },
		"pageURL":  pageURL,
		"date":     formatTime("02 Jan 2006"),
		"datetime": formatTime("02 Jan 2006 15:04"),
		"i64": func(p *int64) string {
			if p == nil {
				return ""
			}
			return strconv.FormatInt(*p, 10)
		},
		"str": func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		},
		"score": func(p *float64) string {
			if p == nil {
				return "-"
			}
			return strconv.FormatFloat(*p, 'f', 1, 64)
		},
		"percent":   func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) + "%" },
		"has":       func(ids []int64, id int64) bool { return slices.Contains(ids, id) },
		"list":      func(v ...string) []string { return v },
		"monthName": func(m int) string { return time.Month(m).String()[:3] },
		"json": func(v any) (template.JS, error) {
			b, err := json.Marshal(v)
			return template.JS(b), err
		},
	}
}

func formatTime(layout string) func(time.Time) string {
	return func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(layout)
	}
}

// pageURL keeps the current filters and swaps the page number.
func pageURL(q url.Values, page int) string {
	out := url.Values{}
	for k, v := range q {
		out[k] = slices.Clone(v)
	}
	out.Set("page", strconv.Itoa(page))
	return "?" + out.Encode()
}
