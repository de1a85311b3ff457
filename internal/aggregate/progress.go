package aggregate

import (
	"sort"

	"github.com/Spok95/kindergarten/internal/models"
)

type ProgressQuarter struct {
	Quarter int                     `json:"quarter"`
	Reports []models.ProgressReport `json:"reports"`
}

type ProgressYear struct {
	Year     int               `json:"year"`
	Quarters []ProgressQuarter `json:"quarters"`
}

// QuarterOf — календарный квартал 1..4.
func QuarterOf(m int) int { return (m-1)/3 + 1 }

// GroupProgress раскладывает отчёты по году и кварталу, всё по возрастанию даты.
func GroupProgress(reports []models.ProgressReport) []ProgressYear {
	sorted := append([]models.ProgressReport(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReportDate.Before(sorted[j].ReportDate)
	})

	out := []ProgressYear{}
	for _, r := range sorted {
		y, q := r.ReportDate.Year(), QuarterOf(int(r.ReportDate.Month()))
		if len(out) == 0 || out[len(out)-1].Year != y {
			out = append(out, ProgressYear{Year: y})
		}
		yr := &out[len(out)-1]
		if len(yr.Quarters) == 0 || yr.Quarters[len(yr.Quarters)-1].Quarter != q {
			yr.Quarters = append(yr.Quarters, ProgressQuarter{Quarter: q})
		}
		qr := &yr.Quarters[len(yr.Quarters)-1]
		qr.Reports = append(qr.Reports, r)
	}
	return out
}
