package aggregate

import (
	"sort"

	"github.com/Spok95/kindergarten/internal/models"
)

// SortSchedule — по времени начала, затем окончания. Формат "HH:MM" сравним как строка.
func SortSchedule(entries []models.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].EndTime < entries[j].EndTime
	})
}
