package aggregate

import "github.com/Spok95/kindergarten/internal/models"

// WorkDays — дни недели в сетке меню, 1 = понедельник.
var WorkDays = []int{1, 2, 3, 4, 5}

var dayNames = map[int]string{
	1: "Понедельник",
	2: "Вторник",
	3: "Среда",
	4: "Четверг",
	5: "Пятница",
}

type MenuCategory struct {
	Category string        `json:"category"`
	Dishes   []models.Dish `json:"dishes"`
}

type MenuMeal struct {
	MealType   models.MealType `json:"meal_type"`
	Categories []MenuCategory  `json:"categories"`
}

type MenuDay struct {
	Day   int        `json:"day"`
	Name  string     `json:"name"`
	Meals []MenuMeal `json:"meals"`
}

// MenuGrid — день × приём пищи × категория. Все 5×5 слотов присутствуют, даже пустые.
// Unresolved — размещения со ссылкой на блюдо, которого нет в каталоге.
type MenuGrid struct {
	GroupID    int64                  `json:"group_id"`
	WeekNumber int                    `json:"week_number"`
	Days       []MenuDay              `json:"days"`
	Unresolved []models.MenuPlacement `json:"unresolved"`
}

// BuildWeeklyMenu соединяет размещения недели группы с каталогом блюд.
// Внутри категории блюда идут в порядке размещений; в категории может быть несколько блюд.
func BuildWeeklyMenu(groupID int64, week int, placements []models.MenuPlacement, dishes []models.Dish) MenuGrid {
	catalog := make(map[int64]models.Dish, len(dishes))
	for _, d := range dishes {
		catalog[d.ID] = d
	}

	grid := MenuGrid{
		GroupID:    groupID,
		WeekNumber: week,
		Days:       make([]MenuDay, 0, len(WorkDays)),
		Unresolved: []models.MenuPlacement{},
	}

	for _, day := range WorkDays {
		md := MenuDay{Day: day, Name: dayNames[day], Meals: make([]MenuMeal, 0, len(models.MealTypes))}
		for _, mt := range models.MealTypes {
			meal := MenuMeal{MealType: mt, Categories: []MenuCategory{}}
			catIdx := map[string]int{}
			for _, p := range placements {
				if p.GroupID != groupID || p.WeekNumber != week || p.DayOfWeek != day || p.MealType != mt {
					continue
				}
				dish, ok := catalog[p.DishID]
				if !ok {
					grid.Unresolved = append(grid.Unresolved, p)
					continue
				}
				i, ok := catIdx[p.Category]
				if !ok {
					meal.Categories = append(meal.Categories, MenuCategory{Category: p.Category})
					i = len(meal.Categories) - 1
					catIdx[p.Category] = i
				}
				meal.Categories[i].Dishes = append(meal.Categories[i].Dishes, dish)
			}
			md.Meals = append(md.Meals, meal)
		}
		grid.Days = append(grid.Days, md)
	}
	return grid
}
