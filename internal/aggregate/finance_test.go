package aggregate

import (
	"testing"
	"time"

	"github.com/Spok95/kindergarten/internal/models"
)

var rates = Rates{DailyRate: 194, PaidGroupSurcharge: 1500}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekdaysPresent — n отметок «был» в будни начиная с 1 апреля 2024 (понедельник).
func weekdaysPresent(childID int64, n int) []models.Attendance {
	out := make([]models.Attendance, 0, n)
	for d := day(2024, time.April, 1); len(out) < n; d = d.AddDate(0, 0, 1) {
		if IsBillableDay(d) {
			out = append(out, models.Attendance{ChildID: childID, Date: d, Present: true})
		}
	}
	return out
}

func TestCalculate(t *testing.T) {
	child := models.BillingChild{ID: 1, FullName: "Иванова Маша", ParentID: 7}

	t.Run("base_only", func(t *testing.T) {
		b := Calculate(BillingInput{Child: child, Attendance: weekdaysPresent(1, 20)}, rates)
		if b.CountedDays != 20 || b.Total != 3880 {
			t.Fatalf("ожидали 20 дней и 3880, получили %d и %v", b.CountedDays, b.Total)
		}
	})

	t.Run("one_discount_50", func(t *testing.T) {
		b := Calculate(BillingInput{
			Child:      child,
			Attendance: weekdaysPresent(1, 20),
			Discounts:  []models.Discount{{ID: 1, Percent: 50, Reason: "многодетные"}},
		}, rates)
		if b.Total != 1940 {
			t.Fatalf("ожидали 1940, получили %v", b.Total)
		}
	})

	t.Run("two_discounts_stack_additively", func(t *testing.T) {
		b := Calculate(BillingInput{
			Child:      child,
			Attendance: weekdaysPresent(1, 20),
			Discounts:  []models.Discount{{ID: 1, Percent: 50}, {ID: 2, Percent: 50}},
		}, rates)
		if b.Total != 0 || b.DiscountTotal != 3880 {
			t.Fatalf("ожидали 0 и скидку 3880, получили %v и %v", b.Total, b.DiscountTotal)
		}
		if b.Credit {
			t.Fatal("нулевой итог не кредит")
		}
	})

	t.Run("discounts_over_subtotal_go_negative", func(t *testing.T) {
		b := Calculate(BillingInput{
			Child:      child,
			Attendance: weekdaysPresent(1, 10),
			Discounts:  []models.Discount{{ID: 1, Percent: 80}, {ID: 2, Percent: 70}},
		}, rates)
		// 1940 - (1552 + 1358) = -970
		if b.Total != -970 || !b.Credit {
			t.Fatalf("ожидали -970 с признаком credit, получили %v credit=%v", b.Total, b.Credit)
		}
	})

	t.Run("paid_group_and_extras", func(t *testing.T) {
		paid := child
		paid.PaidGroup = true
		b := Calculate(BillingInput{
			Child:      paid,
			Attendance: weekdaysPresent(1, 20),
			Discounts:  []models.Discount{{ID: 1, Percent: 10}},
			Usage: []models.ServiceUsage{
				{ServiceID: 3, PricePerLesson: 350, LessonsAttended: 4},
				{ServiceID: 4, PricePerLesson: 250.5, LessonsAttended: 2},
			},
		}, rates)
		// скидка только от base+surcharge: (3880+1500)*0.1 = 538
		if b.DiscountTotal != 538 {
			t.Fatalf("скидка: ожидали 538, получили %v", b.DiscountTotal)
		}
		if b.ExtrasAmount != 1901 {
			t.Fatalf("доп. услуги: ожидали 1901, получили %v", b.ExtrasAmount)
		}
		if b.Total != 3880+1500+1901-538 {
			t.Fatalf("итог: получили %v", b.Total)
		}
	})

	t.Run("absent_days_not_counted", func(t *testing.T) {
		marks := weekdaysPresent(1, 5)
		marks[0].Present = false
		b := Calculate(BillingInput{Child: child, Attendance: marks}, rates)
		if b.CountedDays != 4 {
			t.Fatalf("ожидали 4, получили %d", b.CountedDays)
		}
	})
}

func TestCountBillableDays_ExcludesWeekends(t *testing.T) {
	// март 2024: 31 день, 10 выходных
	var marks []models.Attendance
	for d := 1; d <= 31; d++ {
		marks = append(marks, models.Attendance{ChildID: 1, Date: day(2024, time.March, d), Present: true})
	}
	if got := CountBillableDays(marks); got != 21 {
		t.Fatalf("ожидали 21 будний день, получили %d", got)
	}
}

func TestCountBillableDays_DuplicateDateCountedOnce(t *testing.T) {
	d := day(2024, time.April, 2)
	marks := []models.Attendance{
		{ChildID: 1, Date: d, Present: true},
		{ChildID: 1, Date: d, Present: true},
	}
	if got := CountBillableDays(marks); got != 1 {
		t.Fatalf("ожидали 1, получили %d", got)
	}
}

func TestMonthlyBills(t *testing.T) {
	gname := "Солнышко"
	children := []models.BillingChild{
		{ID: 1, FullName: "Б", GroupName: &gname},
		{ID: 2, FullName: "А", GroupName: &gname, PaidGroup: true},
	}
	april := day(2024, time.April, 1)
	to := day(2024, time.April, 10)
	expired := day(2024, time.March, 31)

	att := append(weekdaysPresent(1, 20), weekdaysPresent(2, 5)...)
	// отметка из другого месяца не учитывается
	att = append(att, models.Attendance{ChildID: 1, Date: day(2024, time.May, 2), Present: true})

	discounts := []models.Discount{
		{ID: 1, ChildID: 1, Percent: 50, ValidFrom: day(2024, time.January, 1), ValidTo: &expired},
		{ID: 2, ChildID: 2, Percent: 10, ValidFrom: april, ValidTo: &to},
	}
	usage := []models.ServiceUsage{
		{ChildID: 2, ServiceID: 9, Month: april, LessonsAttended: 2, PricePerLesson: 300},
		{ChildID: 2, ServiceID: 9, Month: day(2024, time.March, 1), LessonsAttended: 8, PricePerLesson: 300},
	}

	s := MonthlyBills(day(2024, time.April, 15), children, att, discounts, usage, rates)
	if s.Month != "2024-04" || len(s.Bills) != 2 {
		t.Fatalf("неожиданная сводка %+v", s)
	}
	// сортировка по имени внутри группы
	if s.Bills[0].ChildID != 2 {
		t.Fatalf("ожидали первым ребёнка 2, получили %d", s.Bills[0].ChildID)
	}
	b1 := s.Bills[1]
	if b1.CountedDays != 20 || b1.Total != 3880 {
		t.Fatalf("ребёнок 1: истёкшая скидка не должна применяться, получили %+v", b1)
	}
	b2 := s.Bills[0]
	// (970+1500) - 247 + 600
	if b2.Total != 2823 {
		t.Fatalf("ребёнок 2: ожидали 2823, получили %v", b2.Total)
	}
	if s.GrandTotal != 3880+2823 {
		t.Fatalf("итог: получили %v", s.GrandTotal)
	}
}

func TestDiscountActiveIn(t *testing.T) {
	from, to := MonthBounds(day(2024, time.April, 1))
	end := day(2024, time.April, 1)
	cases := []struct {
		name string
		d    models.Discount
		want bool
	}{
		{"open_ended", models.Discount{ValidFrom: day(2023, time.September, 1)}, true},
		{"starts_next_month", models.Discount{ValidFrom: to}, false},
		{"ends_first_day", models.Discount{ValidFrom: day(2024, time.March, 1), ValidTo: &end}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.ActiveIn(from, to); got != tc.want {
				t.Fatalf("ожидали %v, получили %v", tc.want, got)
			}
		})
	}
}
