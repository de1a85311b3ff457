package api

import (
	"net/http"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

type groupRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	AgeMin     int     `json:"age_min" validate:"gte=0,lte=18"`
	AgeMax     int     `json:"age_max" validate:"gtefield=AgeMin,lte=18"`
	IsPaid     bool    `json:"is_paid"`
	TeacherIDs []int64 `json:"teacher_ids" validate:"omitempty,dive,gt=0"`
}

type teachersRequest struct {
	TeacherIDs []int64 `json:"teacher_ids" validate:"required,dive,gt=0"`
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	var (
		out []models.Group
		err error
	)
	if role == models.Teacher && r.URL.Query().Get("mine") == "true" {
		out, err = s.Store.ListGroupsForTeacher(r.Context(), uid)
	} else {
		out, err = s.Store.ListGroups(r.Context())
	}
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	g, err := s.Store.GetGroup(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, g)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) error {
	var req groupRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	g := req.group(0)
	if err := s.Store.CreateGroup(r.Context(), g); err != nil {
		return err
	}
	return created(w, g)
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req groupRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	g := req.group(id)
	if err := s.Store.UpdateGroup(r.Context(), g); err != nil {
		return err
	}
	return ok(w, g)
}

func (s *Server) setGroupTeachers(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req teachersRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if err := s.Store.SetGroupTeachers(r.Context(), id, req.TeacherIDs); err != nil {
		return err
	}
	g, err := s.Store.GetGroup(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, g)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeleteGroup(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

func (req groupRequest) group(id int64) *models.Group {
	ids := req.TeacherIDs
	if ids == nil {
		ids = []int64{}
	}
	return &models.Group{
		ID:         id,
		Name:       req.Name,
		AgeMin:     req.AgeMin,
		AgeMax:     req.AgeMax,
		IsPaid:     req.IsPaid,
		TeacherIDs: ids,
	}
}
