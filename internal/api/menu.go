package api

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

type dishRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Category  string   `json:"category" validate:"required,max=100"`
	Calories  *int     `json:"calories" validate:"omitempty,gte=0,lte=5000"`
	Allergens []string `json:"allergens" validate:"omitempty,max=30,dive,required,max=100"`
}

func (req dishRequest) dish(id int64) *models.Dish {
	return &models.Dish{ID: id, Name: req.Name, Category: req.Category, Calories: req.Calories, Allergens: req.Allergens}
}

type placementRequest struct {
	GroupID    int64  `json:"group_id" validate:"required,gt=0"`
	WeekNumber int    `json:"week_number" validate:"required,gte=1,lte=53"`
	DayOfWeek  int    `json:"day_of_week" validate:"required,gte=1,lte=5"`
	MealType   string `json:"meal_type" validate:"required,mealtype"`
	Category   string `json:"category" validate:"required,max=100"`
	DishID     int64  `json:"dish_id" validate:"required,gt=0"`
}

func (req placementRequest) placement(id int64) *models.MenuPlacement {
	return &models.MenuPlacement{
		ID: id, GroupID: req.GroupID, WeekNumber: req.WeekNumber, DayOfWeek: req.DayOfWeek,
		MealType: models.MealType(req.MealType), Category: req.Category, DishID: req.DishID,
	}
}

func (s *Server) listDishes(w http.ResponseWriter, r *http.Request) error {
	out, err := s.Store.ListDishes(r.Context())
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) createDish(w http.ResponseWriter, r *http.Request) error {
	var req dishRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	d := req.dish(0)
	if err := s.Store.CreateDish(r.Context(), d); err != nil {
		return err
	}
	return created(w, d)
}

func (s *Server) updateDish(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req dishRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	d := req.dish(id)
	if err := s.Store.UpdateDish(r.Context(), d); err != nil {
		return err
	}
	return ok(w, d)
}

func (s *Server) deleteDish(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeleteDish(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

// weeklyMenu — сетка меню группы; week по умолчанию — текущая ISO-неделя.
func (s *Server) weeklyMenu(w http.ResponseWriter, r *http.Request) error {
	groupID, err := requiredQueryID(r, "group_id")
	if err != nil {
		return err
	}
	week, err := s.queryWeek(r)
	if err != nil {
		return err
	}
	placements, err := s.Store.ListPlacements(r.Context(), groupID, week)
	if err != nil {
		return err
	}
	dishes, err := s.Store.ListDishes(r.Context())
	if err != nil {
		return err
	}
	grid := aggregate.BuildWeeklyMenu(groupID, week, placements, dishes)
	for _, p := range grid.Unresolved {
		s.Log.Warn("menu placement references unknown dish",
			zap.Int64("placement_id", p.ID), zap.Int64("dish_id", p.DishID))
	}
	return ok(w, grid)
}

func (s *Server) queryWeek(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		_, week := time.Now().In(s.loc()).ISOWeek()
		return week, nil
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 || week > 53 {
		return 0, apperr.Validation("invalid query parameter", "week: must be between 1 and 53")
	}
	return week, nil
}

func (s *Server) createPlacement(w http.ResponseWriter, r *http.Request) error {
	var req placementRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	p := req.placement(0)
	if err := s.Store.CreatePlacement(r.Context(), p); err != nil {
		return err
	}
	return created(w, p)
}

func (s *Server) updatePlacement(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req placementRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	p := req.placement(id)
	if err := s.Store.UpdatePlacement(r.Context(), p); err != nil {
		return err
	}
	return ok(w, p)
}

func (s *Server) deletePlacement(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeletePlacement(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}
