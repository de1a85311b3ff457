package api

import (
	"net/http"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/models"
)

type serviceRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=2000"`
	PricePerLesson float64 `json:"price_per_lesson" validate:"gte=0"`
	IsActive       *bool   `json:"is_active"`
}

func (req serviceRequest) service(id int64) *models.Service {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Service{ID: id, Name: req.Name, Description: req.Description, PricePerLesson: req.PricePerLesson, IsActive: active}
}

type applicationRequest struct {
	ChildID   int64 `json:"child_id" validate:"required,gt=0"`
	ServiceID int64 `json:"service_id" validate:"required,gt=0"`
}

type decisionRequest struct {
	TeacherIDs []int64 `json:"teacher_ids" validate:"omitempty,dive,gt=0"`
}

// listServices — родителям только активные услуги.
func (s *Server) listServices(w http.ResponseWriter, r *http.Request) error {
	_, role := auth.Identity(r)
	out, err := s.Store.ListServices(r.Context(), role == models.Parent)
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) error {
	var req serviceRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	sv := req.service(0)
	if err := s.Store.CreateService(r.Context(), sv); err != nil {
		return err
	}
	return created(w, sv)
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req serviceRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	sv := req.service(id)
	if err := s.Store.UpdateService(r.Context(), sv); err != nil {
		return err
	}
	return ok(w, sv)
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeleteService(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	f := db.ApplicationFilter{Status: models.ApplicationStatus(r.URL.Query().Get("status"))}
	if f.Status != "" && !f.Status.Valid() {
		return apperr.Validation("invalid query parameter", "status: must be one of pending approved rejected")
	}
	if role == models.Parent {
		f.ParentID = &uid
	}
	out, err := s.Store.ListApplications(r.Context(), f)
	if err != nil {
		return err
	}
	if role == models.Teacher {
		out = assignedTo(out, uid)
	}
	return ok(w, out)
}

// assignedTo — воспитателю видны заявки, где он в числе ведущих.
func assignedTo(apps []models.ServiceApplication, teacherID int64) []models.ServiceApplication {
	out := make([]models.ServiceApplication, 0, len(apps))
	for _, a := range apps {
		for _, t := range a.TeacherIDs {
			if t == teacherID {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// createApplication — родитель подаёт заявку за своего ребёнка на активную услугу.
func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) error {
	var req applicationRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if _, err := s.childFor(r.Context(), uid, role, req.ChildID); err != nil {
		return err
	}
	sv, err := s.Store.GetService(r.Context(), req.ServiceID)
	if err != nil {
		return err
	}
	if !sv.IsActive {
		return apperr.Validation("service is not available", "service_id: service is inactive")
	}
	a := &models.ServiceApplication{ChildID: req.ChildID, ServiceID: req.ServiceID}
	if err := s.Store.CreateApplication(r.Context(), a); err != nil {
		return err
	}
	return created(w, a)
}

func (s *Server) approveApplication(w http.ResponseWriter, r *http.Request) error {
	return s.decide(w, r, models.ApplicationApproved)
}

func (s *Server) rejectApplication(w http.ResponseWriter, r *http.Request) error {
	return s.decide(w, r, models.ApplicationRejected)
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request, status models.ApplicationStatus) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req decisionRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			return err
		}
	}
	if status == models.ApplicationApproved && len(req.TeacherIDs) == 0 {
		return apperr.Validation("validation failed", "teacher_ids: at least one teacher is required to approve")
	}
	if status == models.ApplicationRejected {
		req.TeacherIDs = nil
	}
	uid, _ := auth.Identity(r)
	a, err := s.Store.DecideApplication(r.Context(), id, status, req.TeacherIDs, uid)
	if err != nil {
		return err
	}
	return ok(w, a)
}

// deleteApplication — родитель может отозвать только свою заявку, пока она не рассмотрена.
func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if role == models.Parent {
		a, err := s.Store.GetApplication(r.Context(), id)
		if err != nil {
			return err
		}
		if _, err := s.childFor(r.Context(), uid, role, a.ChildID); err != nil {
			return err
		}
		if a.Status != models.ApplicationPending {
			return apperr.Conflict("application is already decided")
		}
	}
	if err := s.Store.DeleteApplication(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}
