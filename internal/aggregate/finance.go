package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/Spok95/kindergarten/internal/models"
)

// Rates — тарифы месячного расчёта.
type Rates struct {
	DailyRate          float64
	PaidGroupSurcharge float64
}

// BillingInput — всё, что нужно для расчёта одного ребёнка за месяц.
type BillingInput struct {
	Child      models.BillingChild
	Attendance []models.Attendance
	Discounts  []models.Discount
	Usage      []models.ServiceUsage
}

type DiscountLine struct {
	DiscountID int64   `json:"discount_id"`
	Reason     string  `json:"reason"`
	Percent    float64 `json:"percent"`
	Amount     float64 `json:"amount"`
}

type ExtraLine struct {
	ServiceID       int64   `json:"service_id"`
	PricePerLesson  float64 `json:"price_per_lesson"`
	LessonsAttended int     `json:"lessons_attended"`
	Amount          float64 `json:"amount"`
}

// Bill — итог по ребёнку. Total может быть отрицательным: скидки складываются
// и не ограничиваются снизу, такой счёт помечается Credit.
type Bill struct {
	ChildID       int64          `json:"child_id"`
	ChildName     string         `json:"child_name"`
	ParentID      int64          `json:"parent_id"`
	GroupName     string         `json:"group_name,omitempty"`
	PaidGroup     bool           `json:"paid_group"`
	CountedDays   int            `json:"counted_days"`
	BaseAmount    float64        `json:"base_amount"`
	Surcharge     float64        `json:"surcharge"`
	ExtrasAmount  float64        `json:"extras_amount"`
	DiscountTotal float64        `json:"discount_total"`
	Total         float64        `json:"total"`
	Credit        bool           `json:"credit"`
	Discounts     []DiscountLine `json:"discounts"`
	Extras        []ExtraLine    `json:"extras"`
}

type MonthlySummary struct {
	Month      string  `json:"month"`
	DailyRate  float64 `json:"daily_rate"`
	Bills      []Bill  `json:"bills"`
	GrandTotal float64 `json:"grand_total"`
}

// IsBillableDay — посещение оплачивается только в будни.
func IsBillableDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// CountBillableDays считает дни присутствия в будни; повтор одной даты считается один раз.
func CountBillableDays(marks []models.Attendance) int {
	seen := make(map[string]struct{}, len(marks))
	n := 0
	for _, m := range marks {
		if !m.Present || !IsBillableDay(m.Date) {
			continue
		}
		k := m.Date.Format(time.DateOnly)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		n++
	}
	return n
}

// Calculate — месячный счёт по одному ребёнку.
//
// Каждая скидка считается от одной и той же суммы base+surcharge и вычитается;
// скидки не перемножаются и итог не обрезается нулём.
func Calculate(in BillingInput, r Rates) Bill {
	b := Bill{
		ChildID:   in.Child.ID,
		ChildName: in.Child.FullName,
		ParentID:  in.Child.ParentID,
		PaidGroup: in.Child.PaidGroup,
		Discounts: []DiscountLine{},
		Extras:    []ExtraLine{},
	}
	if in.Child.GroupName != nil {
		b.GroupName = *in.Child.GroupName
	}

	b.CountedDays = CountBillableDays(in.Attendance)
	b.BaseAmount = round2(float64(b.CountedDays) * r.DailyRate)
	if in.Child.PaidGroup {
		b.Surcharge = round2(r.PaidGroupSurcharge)
	}

	for _, u := range in.Usage {
		amount := round2(u.PricePerLesson * float64(u.LessonsAttended))
		b.Extras = append(b.Extras, ExtraLine{
			ServiceID:       u.ServiceID,
			PricePerLesson:  u.PricePerLesson,
			LessonsAttended: u.LessonsAttended,
			Amount:          amount,
		})
		b.ExtrasAmount += amount
	}
	b.ExtrasAmount = round2(b.ExtrasAmount)

	subtotal := b.BaseAmount + b.Surcharge
	for _, d := range in.Discounts {
		amount := round2(subtotal * d.Percent / 100)
		b.Discounts = append(b.Discounts, DiscountLine{
			DiscountID: d.ID,
			Reason:     d.Reason,
			Percent:    d.Percent,
			Amount:     amount,
		})
		b.DiscountTotal += amount
	}
	b.DiscountTotal = round2(b.DiscountTotal)

	b.Total = round2(b.BaseAmount + b.Surcharge + b.ExtrasAmount - b.DiscountTotal)
	b.Credit = b.Total < 0
	return b
}

// MonthBounds — [первое число месяца, первое число следующего).
func MonthBounds(month time.Time) (time.Time, time.Time) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MonthlyBills раскладывает уже выбранные строки по детям и считает счета.
// Строки вне месяца и неактивные в месяце скидки отбрасываются.
func MonthlyBills(month time.Time, children []models.BillingChild, attendance []models.Attendance,
	discounts []models.Discount, usage []models.ServiceUsage, r Rates) MonthlySummary {
	from, to := MonthBounds(month)

	attBy := make(map[int64][]models.Attendance)
	for _, a := range attendance {
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		attBy[a.ChildID] = append(attBy[a.ChildID], a)
	}
	discBy := make(map[int64][]models.Discount)
	for _, d := range discounts {
		if !d.ActiveIn(from, to) {
			continue
		}
		discBy[d.ChildID] = append(discBy[d.ChildID], d)
	}
	useBy := make(map[int64][]models.ServiceUsage)
	for _, u := range usage {
		if !sameMonth(u.Month, from) {
			continue
		}
		useBy[u.ChildID] = append(useBy[u.ChildID], u)
	}

	out := MonthlySummary{
		Month:     from.Format("2006-01"),
		DailyRate: r.DailyRate,
		Bills:     make([]Bill, 0, len(children)),
	}
	for _, c := range children {
		b := Calculate(BillingInput{
			Child:      c,
			Attendance: attBy[c.ID],
			Discounts:  discBy[c.ID],
			Usage:      useBy[c.ID],
		}, r)
		out.Bills = append(out.Bills, b)
		out.GrandTotal += b.Total
	}
	sort.SliceStable(out.Bills, func(i, j int) bool {
		if out.Bills[i].GroupName != out.Bills[j].GroupName {
			return out.Bills[i].GroupName < out.Bills[j].GroupName
		}
		return out.Bills[i].ChildName < out.Bills[j].ChildName
	})
	out.GrandTotal = round2(out.GrandTotal)
	return out
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
