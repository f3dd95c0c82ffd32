package db

import (
	"fmt"
	"strings"
)

// clause accumulates AND-joined predicates, numbering "?" placeholders as $n.
type clause struct {
	parts []string
	args  []any
}

func (c *clause) add(expr string, args ...any) {
	var b strings.Builder
	i := 0
	for _, r := range expr {
		if r == '?' && i < len(args) {
			c.args = append(c.args, args[i])
			fmt.Fprintf(&b, "$%d", len(c.args))
			i++
			continue
		}
		b.WriteRune(r)
	}
	c.parts = append(c.parts, b.String())
}

func (c *clause) raw(expr string) {
	if expr != "" {
		c.parts = append(c.parts, expr)
	}
}

// keyword adds (col1 ILIKE $n OR col2 ILIKE $n ...) when kw is non-empty.
func (c *clause) keyword(kw string, cols ...string) {
	kw = strings.TrimSpace(kw)
	if kw == "" || len(cols) == 0 {
		return
	}
	c.args = append(c.args, "%"+kw+"%")
	n := len(c.args)
	ors := make([]string, len(cols))
	for i, col := range cols {
		ors[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
	}
	c.parts = append(c.parts, "("+strings.Join(ors, " OR ")+")")
}

func (c *clause) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// next is the number of the next placeholder.
func (c *clause) next() int { return len(c.args) + 1 }
