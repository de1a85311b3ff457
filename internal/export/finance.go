package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/kindergarten/internal/aggregate"
)

// FinanceWorkbook — месячная оплата: лист счетов и лист скидок.
func FinanceWorkbook(s aggregate.MonthlySummary) (*excelize.File, error) {
	bills := SheetSpec{
		Title: "Оплата " + s.Month,
		Header: []string{"Ребёнок", "Группа", "Дней", "База", "Надбавка", "Доп. услуги",
			"Скидки", "Итого", "Переплата"},
	}
	discounts := SheetSpec{
		Title:  "Скидки",
		Header: []string{"Ребёнок", "Основание", "Процент", "Сумма"},
	}
	for _, b := range s.Bills {
		credit := ""
		if b.Credit {
			credit = "да"
		}
		bills.Rows = append(bills.Rows, []any{
			b.ChildName, b.GroupName, b.CountedDays, b.BaseAmount, b.Surcharge, b.ExtrasAmount,
			b.DiscountTotal, b.Total, credit,
		})
		for _, d := range b.Discounts {
			discounts.Rows = append(discounts.Rows, []any{b.ChildName, d.Reason, d.Percent, d.Amount})
		}
	}
	bills.Rows = append(bills.Rows, []any{"Всего", "", "", "", "", "", "", s.GrandTotal, ""})

	return NewWorkbook([]SheetSpec{bills, discounts})
}
