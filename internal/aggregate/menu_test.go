package aggregate

import (
	"testing"

	"github.com/Spok95/kindergarten/internal/models"
)

func TestBuildWeeklyMenu(t *testing.T) {
	dishes := []models.Dish{
		{ID: 1, Name: "Каша овсяная", Category: "main"},
		{ID: 2, Name: "Какао", Category: "drink"},
		{ID: 3, Name: "Чай", Category: "drink"},
	}
	placements := []models.MenuPlacement{
		{ID: 1, GroupID: 5, WeekNumber: 1, DayOfWeek: 1, MealType: models.Breakfast, Category: "main", DishID: 1},
		{ID: 2, GroupID: 5, WeekNumber: 1, DayOfWeek: 1, MealType: models.Breakfast, Category: "drink", DishID: 2},
		{ID: 3, GroupID: 5, WeekNumber: 1, DayOfWeek: 1, MealType: models.Breakfast, Category: "drink", DishID: 3},
		{ID: 4, GroupID: 5, WeekNumber: 1, DayOfWeek: 2, MealType: models.Lunch, Category: "main", DishID: 777},
		{ID: 5, GroupID: 5, WeekNumber: 2, DayOfWeek: 1, MealType: models.Breakfast, Category: "main", DishID: 1},
		{ID: 6, GroupID: 6, WeekNumber: 1, DayOfWeek: 1, MealType: models.Breakfast, Category: "main", DishID: 1},
	}

	grid := BuildWeeklyMenu(5, 1, placements, dishes)

	if len(grid.Days) != 5 {
		t.Fatalf("ожидали 5 дней, получили %d", len(grid.Days))
	}
	for _, d := range grid.Days {
		if len(d.Meals) != 5 {
			t.Fatalf("день %d: ожидали 5 приёмов пищи, получили %d", d.Day, len(d.Meals))
		}
	}

	breakfast := grid.Days[0].Meals[0]
	if breakfast.MealType != models.Breakfast || len(breakfast.Categories) != 2 {
		t.Fatalf("завтрак понедельника: %+v", breakfast)
	}
	drinks := breakfast.Categories[1]
	if drinks.Category != "drink" || len(drinks.Dishes) != 2 || drinks.Dishes[0].ID != 2 {
		t.Fatalf("напитки: ожидали [Какао, Чай], получили %+v", drinks)
	}

	t.Run("missing_dish_omitted_and_reported", func(t *testing.T) {
		lunch := grid.Days[1].Meals[2]
		if lunch.MealType != models.Lunch || len(lunch.Categories) != 0 {
			t.Fatalf("обед вторника должен быть пуст, получили %+v", lunch)
		}
		if len(grid.Unresolved) != 1 || grid.Unresolved[0].DishID != 777 {
			t.Fatalf("ожидали одно неразрешённое размещение, получили %+v", grid.Unresolved)
		}
	})
}

func TestBuildWeeklyMenu_EmptyCatalog(t *testing.T) {
	placements := []models.MenuPlacement{
		{ID: 1, GroupID: 1, WeekNumber: 3, DayOfWeek: 5, MealType: models.Dinner, Category: "main", DishID: 1},
	}
	grid := BuildWeeklyMenu(1, 3, placements, nil)
	if len(grid.Unresolved) != 1 {
		t.Fatalf("ожидали 1 неразрешённое, получили %d", len(grid.Unresolved))
	}
}
