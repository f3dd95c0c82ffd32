// Package pagination implements the page/perPage envelope shared by every
// listing: a COUNT query fixes total, the data query takes LIMIT/OFFSET.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var (
	CourseOpts  = Options{DefaultPerPage: 20, MaxPerPage: 200}
	QuizOpts    = Options{DefaultPerPage: 20, MaxPerPage: 200}
	UserOpts    = Options{DefaultPerPage: 50, MaxPerPage: 500}
	HistoryOpts = Options{DefaultPerPage: 20, MaxPerPage: 200}
	APIOpts     = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page    int
	PerPage int
}

// New normalises page and perPage against opt.
func New(page, perPage int, opt Options) Params {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && perPage > opt.MaxPerPage {
		perPage = opt.MaxPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	return Params{Page: page, PerPage: perPage}
}

// FromQuery reads "page" and "perPage" (or "per_page").
func FromQuery(q url.Values, opt Options) Params {
	per := firstNonEmpty(q.Get("perPage"), q.Get("per_page"))
	return New(atoiDefault(q.Get("page"), DefaultPage), atoiDefault(per, 0), opt)
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

type Meta struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func BuildMeta(total int64, p Params) Meta {
	totalPages := 0
	if total > 0 && p.PerPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Meta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

// Empty is the envelope rendered when a listing query failed.
func Empty(p Params) Meta { return BuildMeta(0, p) }

type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func NewPage[T any](data []T, total int64, p Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: BuildMeta(total, p)}
}

// Pages lists page numbers around the current one for templates.
func (m Meta) Pages(window int) []int {
	if m.TotalPages == 0 {
		return nil
	}
	from := max(1, m.CurrentPage-window)
	to := min(m.TotalPages, m.CurrentPage+window)
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
