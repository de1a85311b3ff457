// Package export — выгрузки в xlsx.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetSpec — лист: шапка и строки значений (строки, числа, bool).
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
}

// NewWorkbook собирает книгу из листов; первый лист заменяет стандартный Sheet1.
func NewWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		header := make([]any, len(s.Header))
		for i, h := range s.Header {
			header[i] = h
		}
		if err := f.SetSheetRow(s.Title, "A1", &header); err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		for r, row := range s.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			row := row
			if err := f.SetSheetRow(s.Title, cell, &row); err != nil {
				return nil, fmt.Errorf("row %d: %w", r+2, err)
			}
		}
		if err := ApplyDefaultExcelFormatting(f, s.Title); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Bytes — книга целиком в памяти (для ответа HTTP).
func Bytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
