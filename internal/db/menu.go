package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/kindergarten/internal/models"
)

func (s *Store) ListDishes(ctx context.Context) ([]models.Dish, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Dish{}
	err := s.db.SelectContext(ctx, &out, `SELECT id, name, category, calories, allergens FROM dishes ORDER BY category, name`)
	return out, err
}

func (s *Store) CreateDish(ctx context.Context, d *models.Dish) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if d.Allergens == nil {
		d.Allergens = []string{}
	}
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO dishes (name, category, calories, allergens)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, d.Name, d.Category, d.Calories, d.Allergens).Scan(&d.ID)
}

func (s *Store) UpdateDish(ctx context.Context, d *models.Dish) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if d.Allergens == nil {
		d.Allergens = []string{}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE dishes SET name = $1, category = $2, calories = $3, allergens = $4 WHERE id = $5
	`, d.Name, d.Category, d.Calories, d.Allergens, d.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "dish", d.ID)
}

// DeleteDish удаляет блюдо вместе с его местами в меню.
func (s *Store) DeleteDish(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_menu WHERE dish_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return mustAffect(res, "dish", id)
	})
}

const placementColumns = `id, group_id, week_number, day_of_week, meal_type, category, dish_id`

// ListPlacements — меню группы на неделю в порядке добавления.
func (s *Store) ListPlacements(ctx context.Context, groupID int64, week int) ([]models.MenuPlacement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.MenuPlacement{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+placementColumns+` FROM weekly_menu
		WHERE group_id = $1 AND week_number = $2
		ORDER BY day_of_week, id`, groupID, week)
	return out, err
}

func (s *Store) CreatePlacement(ctx context.Context, p *models.MenuPlacement) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO weekly_menu (group_id, week_number, day_of_week, meal_type, category, dish_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, p.GroupID, p.WeekNumber, p.DayOfWeek, string(p.MealType), p.Category, p.DishID).Scan(&p.ID)
}

func (s *Store) UpdatePlacement(ctx context.Context, p *models.MenuPlacement) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE weekly_menu
		SET group_id = $1, week_number = $2, day_of_week = $3, meal_type = $4, category = $5, dish_id = $6
		WHERE id = $7
	`, p.GroupID, p.WeekNumber, p.DayOfWeek, string(p.MealType), p.Category, p.DishID, p.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "menu placement", p.ID)
}

func (s *Store) DeletePlacement(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM weekly_menu WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "menu placement", id)
}
