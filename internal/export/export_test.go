package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/kindergarten/internal/aggregate"
)

func TestFinanceWorkbook(t *testing.T) {
	s := aggregate.MonthlySummary{
		Month:     "2024-03",
		DailyRate: 194,
		Bills: []aggregate.Bill{
			{ChildName: "Иванов Петя", GroupName: "Солнышко", CountedDays: 20, BaseAmount: 3880, Total: 1940, DiscountTotal: 1940,
				Discounts: []aggregate.DiscountLine{{Reason: "Многодетные", Percent: 50, Amount: 1940}}},
			{ChildName: "Петрова Аня", Total: -970, Credit: true},
		},
		GrandTotal: 970,
	}
	f, err := FinanceWorkbook(s)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := Bytes(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Fatal("пустой файл")
	}

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Оплата 2024-03" {
		t.Fatalf("неожиданные листы: %v", sheets)
	}
	if v, _ := f.GetCellValue(sheets[0], "H2"); v != "1940" {
		t.Fatalf("итог первой строки: %q", v)
	}
	if v, _ := f.GetCellValue(sheets[0], "I3"); v != "да" {
		t.Fatalf("переплата должна быть помечена, получили %q", v)
	}
	if v, _ := f.GetCellValue(sheets[0], "H4"); v != "970" {
		t.Fatalf("общий итог: %q", v)
	}
	if v, _ := f.GetCellValue("Скидки", "B2"); v != "Многодетные" {
		t.Fatalf("скидка: %q", v)
	}
}

func TestAttendanceWorkbook(t *testing.T) {
	sheet := aggregate.AttendanceSheet{
		Month:       "2024-02",
		DaysInMonth: 29,
		Weekends:    []int{3, 4},
		Rows: []aggregate.SheetRow{
			{ChildName: "Иванов Петя", Days: map[int]bool{1: true, 2: false}, PresentDays: 1, BillableDays: 1},
		},
	}
	f, err := AttendanceWorkbook("Солнышко", sheet)
	if err != nil {
		t.Fatal(err)
	}
	title := "Табель 2024-02"
	cols, err := f.GetCols(title)
	if err != nil {
		t.Fatal(err)
	}
	// ребёнок + 29 дней + два итога
	if len(cols) != 32 {
		t.Fatalf("ожидали 32 колонки, получили %d", len(cols))
	}
	b2, _ := f.GetCellValue(title, "B2")
	c2, _ := f.GetCellValue(title, "C2")
	d2, _ := f.GetCellValue(title, "D2")
	if b2 != "+" || c2 != "н" || d2 != "" {
		t.Fatalf("отметки: %q %q %q", b2, c2, d2)
	}
	last, _ := excelize.ColumnNumberToName(32)
	if v, _ := f.GetCellValue(title, last+"2"); v != "1" {
		t.Fatalf("к оплате: %q", v)
	}
}

func TestBuildFilenames(t *testing.T) {
	if got := BuildAttendanceFilename("Группа 1/2", "2024-03"); got != "Табель Группа 1_2 2024-03.xlsx" {
		t.Fatalf("получили %q", got)
	}
	if got := BuildFinanceFilename(" "); got != "Оплата за без названия.xlsx" {
		t.Fatalf("получили %q", got)
	}
}
