package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ApplyDefaultExcelFormatting: жирная шапка, автофильтр по первой строке,
// примерная ширина колонок по содержимому.
func ApplyDefaultExcelFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	_ = f.AutoFilter(sheet, "A1:"+last+"1", nil)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	widths := make([]float64, cols)
	for c := range widths {
		widths[c] = 8
	}
	for rIdx, row := range rows {
		for cIdx := 0; cIdx < len(row); cIdx++ {
			// кириллица визуально шире латиницы
			w := float64(len([]rune(row[cIdx]))) * 1.1
			if rIdx == 0 {
				w += 1.5
			}
			if w > 50 {
				w = 50
			}
			if w > widths[cIdx] {
				widths[cIdx] = w
			}
		}
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func BuildFinanceFilename(month string) string {
	return sanitizeFileName(fmt.Sprintf("Оплата за %s.xlsx", cleanName(month)))
}

func BuildAttendanceFilename(groupName, month string) string {
	return sanitizeFileName(fmt.Sprintf("Табель %s %s.xlsx", cleanName(groupName), cleanName(month)))
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "без названия"
	}
	return s
}
