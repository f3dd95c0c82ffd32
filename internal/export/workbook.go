// Package export renders listings as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type Sheet struct {
	Title  string
	Header []string
	Rows   [][]any
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook writes the sheets in order, replacing the default sheet.
func NewWorkbook(sheets ...Sheet) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("new sheet %q: %w", s.Title, err)
		}
		if err := writeSheet(f, s); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return &Workbook{File: f}, nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	header := make([]any, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Title, "A1", &header); err != nil {
		return fmt.Errorf("header %s: %w", s.Title, err)
	}
	for r, row := range s.Rows {
		cells := row
		if err := f.SetSheetRow(s.Title, cellRef(1, r+2), &cells); err != nil {
			return fmt.Errorf("row %d of %s: %w", r+2, s.Title, err)
		}
	}
	return applyFormatting(f, s.Title, len(s.Header))
}

func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.File.WriteTo(out)
}

func (w *Workbook) Close() error { return w.File.Close() }
