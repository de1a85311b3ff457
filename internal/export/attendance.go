package export

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/kindergarten/internal/aggregate"
)

// AttendanceWorkbook — табель: ребёнок × день месяца, "+" был, "н" не был.
func AttendanceWorkbook(groupName string, sheet aggregate.AttendanceSheet) (*excelize.File, error) {
	spec := SheetSpec{Title: "Табель " + sheet.Month, Header: []string{"Ребёнок"}}
	for d := 1; d <= sheet.DaysInMonth; d++ {
		spec.Header = append(spec.Header, strconv.Itoa(d))
	}
	spec.Header = append(spec.Header, "Присутствий", "К оплате")

	for _, r := range sheet.Rows {
		row := []any{r.ChildName}
		for d := 1; d <= sheet.DaysInMonth; d++ {
			mark := ""
			if present, ok := r.Days[d]; ok {
				mark = "н"
				if present {
					mark = "+"
				}
			}
			row = append(row, mark)
		}
		row = append(row, r.PresentDays, r.BillableDays)
		spec.Rows = append(spec.Rows, row)
	}

	f, err := NewWorkbook([]SheetSpec{spec})
	if err != nil {
		return nil, err
	}
	// выходные серым
	if grey, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1}}); err == nil {
		last := len(sheet.Rows) + 1
		for _, d := range sheet.Weekends {
			col, _ := excelize.ColumnNumberToName(d + 1)
			_ = f.SetCellStyle(spec.Title, col+"1", col+strconv.Itoa(last), grey)
		}
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: BuildAttendanceFilename(groupName, sheet.Month), Creator: "kindergarten"})
	return f, nil
}
