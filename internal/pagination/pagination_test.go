package pagination

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMeta_TotalPagesIsCeil(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		page    int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{999, 50, 7},
		{1000, 50, 20},
	}
	for _, tc := range cases {
		m := BuildMeta(tc.total, Params{Page: tc.page, PerPage: tc.perPage})
		want := int(math.Ceil(float64(tc.total) / float64(tc.perPage)))
		assert.Equal(t, want, m.TotalPages, "total=%d perPage=%d", tc.total, tc.perPage)
		assert.Equal(t, tc.page < want, m.HasNext)
		assert.Equal(t, tc.page > 1, m.HasPrev)
		assert.Equal(t, tc.page, m.CurrentPage)
	}
}

func TestNew_Normalises(t *testing.T) {
	p := New(0, 0, CourseOpts)
	assert.Equal(t, Params{Page: 1, PerPage: 20}, p)

	p = New(3, 10_000, UserOpts)
	assert.Equal(t, 500, p.PerPage)
	assert.Equal(t, 1000, p.Offset())
	assert.Equal(t, 500, p.Limit())
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"page": {"2"}, "perPage": {"10"}}
	assert.Equal(t, Params{Page: 2, PerPage: 10}, FromQuery(q, APIOpts))

	q = url.Values{"page": {"abc"}, "per_page": {"5"}}
	assert.Equal(t, Params{Page: 1, PerPage: 5}, FromQuery(q, APIOpts))

	assert.Equal(t, Params{Page: 1, PerPage: 50}, FromQuery(url.Values{}, APIOpts))
}

func TestNewPage_NeverNilData(t *testing.T) {
	pg := NewPage[int](nil, 0, Params{Page: 1, PerPage: 20})
	assert.NotNil(t, pg.Data)
	assert.Len(t, pg.Data, 0)
	assert.Equal(t, 0, pg.Pagination.TotalPages)
}

func TestMeta_Pages(t *testing.T) {
	m := BuildMeta(200, Params{Page: 5, PerPage: 20})
	assert.Equal(t, []int{3, 4, 5, 6, 7}, m.Pages(2))

	m = BuildMeta(30, Params{Page: 1, PerPage: 20})
	assert.Equal(t, []int{1, 2}, m.Pages(2))

	assert.Nil(t, Empty(Params{Page: 1, PerPage: 20}).Pages(2))
}
