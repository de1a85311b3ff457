package api

import (
	"net/http"
	"time"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/export"
	"github.com/Spok95/kindergarten/internal/models"
)

type discountRequest struct {
	ChildID   int64   `json:"child_id" validate:"required,gt=0"`
	Percent   float64 `json:"percent" validate:"gt=0,lte=100"`
	Reason    string  `json:"reason" validate:"required,max=200"`
	ValidFrom string  `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo   *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
}

func (req discountRequest) discount(id int64) (*models.Discount, error) {
	from, err := time.Parse(time.DateOnly, req.ValidFrom)
	if err != nil {
		return nil, apperr.Validation("validation failed", "valid_from: expected YYYY-MM-DD")
	}
	d := &models.Discount{ID: id, ChildID: req.ChildID, Percent: req.Percent, Reason: req.Reason, ValidFrom: from}
	if req.ValidTo != nil {
		to, err := time.Parse(time.DateOnly, *req.ValidTo)
		if err != nil {
			return nil, apperr.Validation("validation failed", "valid_to: expected YYYY-MM-DD")
		}
		if to.Before(from) {
			return nil, apperr.Validation("validation failed", "valid_to: must not be before valid_from")
		}
		d.ValidTo = &to
	}
	return d, nil
}

type usageRequest struct {
	ChildID         int64  `json:"child_id" validate:"required,gt=0"`
	ServiceID       int64  `json:"service_id" validate:"required,gt=0"`
	Month           string `json:"month" validate:"required,datetime=2006-01"`
	LessonsAttended int    `json:"lessons_attended" validate:"gte=0,lte=62"`
}

// monthlySummary собирает строки месяца и считает счета. parentID > 0 — только его дети.
func (s *Server) monthlySummary(r *http.Request, parentID int64) (aggregate.MonthlySummary, error) {
	month, err := s.queryMonth(r)
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	groupID, err := queryID(r, "group_id")
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	ctx := r.Context()
	from, to := aggregate.MonthBounds(month)

	children, err := s.Store.ListBillingChildren(ctx, groupID, parentID)
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	att, err := s.Store.ListAttendanceRange(ctx, from, to)
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	disc, err := s.Store.ListDiscountsActive(ctx, from, to)
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	usage, err := s.Store.ListUsage(ctx, from)
	if err != nil {
		return aggregate.MonthlySummary{}, err
	}
	daily, surcharge := s.rates()
	return aggregate.MonthlyBills(month, children, att, disc, usage,
		aggregate.Rates{DailyRate: daily, PaidGroupSurcharge: surcharge}), nil
}

func (s *Server) monthlyFinance(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	var parentID int64
	if role == models.Parent {
		parentID = uid
	}
	sum, err := s.monthlySummary(r, parentID)
	if err != nil {
		return err
	}
	return ok(w, sum)
}

func (s *Server) exportFinance(w http.ResponseWriter, r *http.Request) error {
	sum, err := s.monthlySummary(r, 0)
	if err != nil {
		return err
	}
	f, err := export.FinanceWorkbook(sum)
	if err != nil {
		return err
	}
	return sendWorkbook(w, export.BuildFinanceFilename(sum.Month), f)
}

func (s *Server) listDiscounts(w http.ResponseWriter, r *http.Request) error {
	childID, err := queryID(r, "child_id")
	if err != nil {
		return err
	}
	out, err := s.Store.ListDiscounts(r.Context(), childID)
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) createDiscount(w http.ResponseWriter, r *http.Request) error {
	var req discountRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	d, err := req.discount(0)
	if err != nil {
		return err
	}
	if err := s.Store.CreateDiscount(r.Context(), d); err != nil {
		return err
	}
	return created(w, d)
}

func (s *Server) updateDiscount(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req discountRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	d, err := req.discount(id)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateDiscount(r.Context(), d); err != nil {
		return err
	}
	return ok(w, d)
}

func (s *Server) deleteDiscount(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeleteDiscount(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

func (s *Server) listUsage(w http.ResponseWriter, r *http.Request) error {
	month, err := s.queryMonth(r)
	if err != nil {
		return err
	}
	out, err := s.Store.ListUsage(r.Context(), month)
	if err != nil {
		return err
	}
	return ok(w, out)
}

// upsertUsage — учёт занятий доп. услуги за месяц; воспитатель — только для детей своих групп.
func (s *Server) upsertUsage(w http.ResponseWriter, r *http.Request) error {
	var req usageRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	month, _ := time.Parse("2006-01", req.Month)
	if err := s.mayMark(r, req.ChildID); err != nil {
		return err
	}
	u := &models.ServiceUsage{ChildID: req.ChildID, ServiceID: req.ServiceID, Month: month, LessonsAttended: req.LessonsAttended}
	if err := s.Store.UpsertUsage(r.Context(), u); err != nil {
		return err
	}
	return ok(w, u)
}
