package export

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 10
	maxColWidth = 60
)

// applyFormatting bolds and freezes the header row, adds an autofilter and
// sizes each column to its widest cell.
func applyFormatting(f *excelize.File, sheet string, cols int) error {
	if cols == 0 {
		return nil
	}
	last := colName(cols)
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E7E7FF"}},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, "A1:"+last+"1", nil); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	widths := make([]float64, cols)
	for i := range widths {
		widths[i] = minColWidth
	}
	for r, row := range rows {
		for c := 0; c < cols && c < len(row); c++ {
			w := float64(visualLen(row[c])) * 1.1
			if r == 0 {
				w += 2
			}
			widths[c] = min(max(widths[c], w), maxColWidth)
		}
	}
	for i, w := range widths {
		col := colName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// colName maps 1 to A and 27 to AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

// visualLen counts runes that take horizontal space; Thai tone marks and
// vowels above or below the line are combining and add no width.
func visualLen(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n += 4
		case unicode.Is(unicode.Mn, r):
		default:
			n++
		}
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func cellRef(col, row int) string { return fmt.Sprintf("%s%d", colName(col), row) }
