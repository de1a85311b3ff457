package aggregate

import (
	"testing"
	"time"

	"github.com/Spok95/kindergarten/internal/models"
)

func TestGroupProgress(t *testing.T) {
	reports := []models.ProgressReport{
		{ID: 1, ReportDate: day(2024, time.May, 20)},
		{ID: 2, ReportDate: day(2023, time.November, 1)},
		{ID: 3, ReportDate: day(2024, time.January, 15)},
		{ID: 4, ReportDate: day(2024, time.April, 2)},
	}
	years := GroupProgress(reports)
	if len(years) != 2 || years[0].Year != 2023 || years[1].Year != 2024 {
		t.Fatalf("годы: %+v", years)
	}
	q := years[1].Quarters
	if len(q) != 2 || q[0].Quarter != 1 || q[1].Quarter != 2 {
		t.Fatalf("кварталы 2024: %+v", q)
	}
	if len(q[1].Reports) != 2 || q[1].Reports[0].ID != 4 {
		t.Fatalf("второй квартал: ожидали [4, 1], получили %+v", q[1].Reports)
	}
	if reports[0].ID != 1 {
		t.Fatal("входной срез не должен переупорядочиваться")
	}
}

func TestQuarterOf(t *testing.T) {
	for m, want := range map[int]int{1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 12: 4} {
		if got := QuarterOf(m); got != want {
			t.Fatalf("месяц %d: ожидали %d, получили %d", m, want, got)
		}
	}
}

func TestSortSchedule(t *testing.T) {
	e := []models.ScheduleEntry{
		{ID: 1, StartTime: "12:00", EndTime: "13:00"},
		{ID: 2, StartTime: "08:30", EndTime: "09:00"},
		{ID: 3, StartTime: "08:30", EndTime: "08:45"},
	}
	SortSchedule(e)
	if e[0].ID != 3 || e[1].ID != 2 || e[2].ID != 1 {
		t.Fatalf("неверный порядок: %+v", e)
	}
}

func TestBuildAttendanceSheet(t *testing.T) {
	children := []models.Child{{ID: 1, FullName: "Маша"}, {ID: 2, FullName: "Петя"}}
	records := []models.Attendance{
		{ChildID: 1, Date: day(2024, time.March, 1), Present: true},  // пятница
		{ChildID: 1, Date: day(2024, time.March, 2), Present: true},  // суббота
		{ChildID: 1, Date: day(2024, time.March, 4), Present: false}, // понедельник
		{ChildID: 2, Date: day(2024, time.April, 1), Present: true},  // другой месяц
	}
	s := BuildAttendanceSheet(day(2024, time.March, 10), children, records)
	if s.DaysInMonth != 31 || len(s.Weekends) != 10 {
		t.Fatalf("ожидали 31 день и 10 выходных, получили %d и %d", s.DaysInMonth, len(s.Weekends))
	}
	r := s.Rows[0]
	if r.PresentDays != 2 || r.BillableDays != 1 || r.Days[4] {
		t.Fatalf("Маша: %+v", r)
	}
	if len(s.Rows[1].Days) != 0 {
		t.Fatalf("Петя: апрельская отметка попала в март: %+v", s.Rows[1])
	}
}
