package models

import "github.com/lib/pq"

type MealType string

const (
	Breakfast       MealType = "breakfast"
	SecondBreakfast MealType = "second_breakfast"
	Lunch           MealType = "lunch"
	Snack           MealType = "snack"
	Dinner          MealType = "dinner"
)

// MealTypes — порядок приёмов пищи в сетке меню.
var MealTypes = []MealType{Breakfast, SecondBreakfast, Lunch, Snack, Dinner}

func (m MealType) Valid() bool {
	for _, x := range MealTypes {
		if x == m {
			return true
		}
	}
	return false
}

type Dish struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Category  string         `db:"category" json:"category"`
	Calories  *int           `db:"calories" json:"calories,omitempty"`
	Allergens pq.StringArray `db:"allergens" json:"allergens"`
}

// MenuPlacement — блюдо в слоте (группа, неделя, день, приём пищи, категория).
type MenuPlacement struct {
	ID         int64    `db:"id" json:"id"`
	GroupID    int64    `db:"group_id" json:"group_id"`
	WeekNumber int      `db:"week_number" json:"week_number"`
	DayOfWeek  int      `db:"day_of_week" json:"day_of_week"`
	MealType   MealType `db:"meal_type" json:"meal_type"`
	Category   string   `db:"category" json:"category"`
	DishID     int64    `db:"dish_id" json:"dish_id"`
}
