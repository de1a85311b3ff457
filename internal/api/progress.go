package api

import (
	"net/http"
	"time"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

type progressRequest struct {
	ChildID    int64    `json:"child_id" validate:"required,gt=0"`
	ReportDate string   `json:"report_date" validate:"required,datetime=2006-01-02"`
	Speech     int      `json:"speech" validate:"gte=0,lte=10"`
	Motor      int      `json:"motor" validate:"gte=0,lte=10"`
	Social     int      `json:"social" validate:"gte=0,lte=10"`
	Cognitive  int      `json:"cognitive" validate:"gte=0,lte=10"`
	Creativity int      `json:"creativity" validate:"gte=0,lte=10"`
	HeightCM   *float64 `json:"height_cm" validate:"omitempty,gt=0,lt=250"`
	WeightKG   *float64 `json:"weight_kg" validate:"omitempty,gt=0,lt=200"`
	Notes      *string  `json:"notes" validate:"omitempty,max=2000"`
}

func (req progressRequest) report(id, author int64) (*models.ProgressReport, error) {
	d, err := time.Parse(time.DateOnly, req.ReportDate)
	if err != nil {
		return nil, apperr.Validation("validation failed", "report_date: expected YYYY-MM-DD")
	}
	return &models.ProgressReport{
		ID: id, ChildID: req.ChildID, AuthorID: author, ReportDate: d,
		Speech: req.Speech, Motor: req.Motor, Social: req.Social, Cognitive: req.Cognitive, Creativity: req.Creativity,
		HeightCM: req.HeightCM, WeightKG: req.WeightKG, Notes: req.Notes,
	}, nil
}

type childProgressResponse struct {
	ChildID int64                    `json:"child_id"`
	Years   []aggregate.ProgressYear `json:"years"`
}

// childProgress — отчёты ребёнка по годам и кварталам.
func (s *Server) childProgress(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if _, err := s.childFor(r.Context(), uid, role, id); err != nil {
		return err
	}
	reports, err := s.Store.ListChildProgress(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, childProgressResponse{ChildID: id, Years: aggregate.GroupProgress(reports)})
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	p, err := s.Store.GetProgress(r.Context(), id)
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if _, err := s.childFor(r.Context(), uid, role, p.ChildID); err != nil {
		return err
	}
	return ok(w, p)
}

func (s *Server) createProgress(w http.ResponseWriter, r *http.Request) error {
	var req progressRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	uid, _ := auth.Identity(r)
	p, err := req.report(0, uid)
	if err != nil {
		return err
	}
	if err := s.mayWriteAbout(r, p.ChildID); err != nil {
		return err
	}
	if err := s.Store.CreateProgress(r.Context(), p); err != nil {
		return err
	}
	return created(w, p)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req progressRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	cur, err := s.ownReport(r, id)
	if err != nil {
		return err
	}
	p, err := req.report(id, cur.AuthorID)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateProgress(r.Context(), p); err != nil {
		return err
	}
	return ok(w, p)
}

func (s *Server) deleteProgress(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if _, err := s.ownReport(r, id); err != nil {
		return err
	}
	if err := s.Store.DeleteProgress(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

// ownReport — править отчёт может автор или админ.
func (s *Server) ownReport(r *http.Request, id int64) (*models.ProgressReport, error) {
	p, err := s.Store.GetProgress(r.Context(), id)
	if err != nil {
		return nil, err
	}
	uid, role := auth.Identity(r)
	if role != models.Admin && p.AuthorID != uid {
		return nil, apperr.Forbidden("only the author can change this report")
	}
	return p, nil
}
