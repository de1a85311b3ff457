package aggregate

import (
	"time"

	"github.com/Spok95/kindergarten/internal/models"
)

type SheetRow struct {
	ChildID   int64  `json:"child_id"`
	ChildName string `json:"child_name"`
	// Days — отметки по номеру дня месяца; отсутствие ключа = нет отметки.
	Days         map[int]bool `json:"days"`
	PresentDays  int          `json:"present_days"`
	BillableDays int          `json:"billable_days"`
}

type AttendanceSheet struct {
	Month       string     `json:"month"`
	DaysInMonth int        `json:"days_in_month"`
	Weekends    []int      `json:"weekends"`
	Rows        []SheetRow `json:"rows"`
}

// BuildAttendanceSheet — табель группы за месяц: ребёнок × день.
func BuildAttendanceSheet(month time.Time, children []models.Child, records []models.Attendance) AttendanceSheet {
	from, to := MonthBounds(month)
	days := to.AddDate(0, 0, -1).Day()

	sheet := AttendanceSheet{
		Month:       from.Format("2006-01"),
		DaysInMonth: days,
		Weekends:    []int{},
		Rows:        make([]SheetRow, 0, len(children)),
	}
	for d := 1; d <= days; d++ {
		if !IsBillableDay(from.AddDate(0, 0, d-1)) {
			sheet.Weekends = append(sheet.Weekends, d)
		}
	}

	byChild := make(map[int64][]models.Attendance)
	for _, r := range records {
		if r.Date.Before(from) || !r.Date.Before(to) {
			continue
		}
		byChild[r.ChildID] = append(byChild[r.ChildID], r)
	}

	for _, c := range children {
		row := SheetRow{ChildID: c.ID, ChildName: c.FullName, Days: map[int]bool{}}
		for _, r := range byChild[c.ID] {
			row.Days[r.Date.Day()] = r.Present
		}
		for _, present := range row.Days {
			if present {
				row.PresentDays++
			}
		}
		row.BillableDays = CountBillableDays(byChild[c.ID])
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
