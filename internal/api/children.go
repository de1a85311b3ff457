package api

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/models"
	"github.com/Spok95/kindergarten/internal/storage"
)

type childRequest struct {
	FullName  string   `json:"full_name" validate:"required,max=200"`
	BirthDate string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	ParentID  int64    `json:"parent_id" validate:"required,gt=0"`
	GroupID   *int64   `json:"group_id" validate:"omitempty,gt=0"`
	Allergies []string `json:"allergies" validate:"omitempty,max=50,dive,required,max=100"`
}

func (req childRequest) child(id int64) (*models.Child, error) {
	bd, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		return nil, apperr.Validation("validation failed", "birth_date: expected YYYY-MM-DD")
	}
	if bd.After(time.Now()) {
		return nil, apperr.Validation("validation failed", "birth_date: must not be in the future")
	}
	return &models.Child{
		ID:        id,
		FullName:  req.FullName,
		BirthDate: bd,
		ParentID:  req.ParentID,
		GroupID:   req.GroupID,
		Allergies: req.Allergies,
	}, nil
}

// listChildren: родитель — свои, воспитатель — из своих групп, остальные — все (фильтр group_id).
func (s *Server) listChildren(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	groupID, err := queryID(r, "group_id")
	if err != nil {
		return err
	}
	var f db.ChildFilter
	if groupID > 0 {
		f.GroupID = &groupID
	}
	switch role {
	case models.Parent:
		f.ParentID = &uid
	case models.Teacher:
		f.TeacherID = &uid
	}
	out, err := s.Store.ListChildren(r.Context(), f)
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) getChild(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	c, err := s.childFor(r.Context(), uid, role, id)
	if err != nil {
		return err
	}
	return ok(w, c)
}

func (s *Server) createChild(w http.ResponseWriter, r *http.Request) error {
	var req childRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	c, err := req.child(0)
	if err != nil {
		return err
	}
	if err := s.Store.CreateChild(r.Context(), c); err != nil {
		return err
	}
	return created(w, c)
}

func (s *Server) updateChild(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req childRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	c, err := req.child(id)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateChild(r.Context(), c); err != nil {
		return err
	}
	fresh, err := s.Store.GetChild(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, fresh)
}

func (s *Server) deleteChild(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	photo, err := s.Store.DeleteChild(r.Context(), id)
	if err != nil {
		return err
	}
	s.dropPhoto(photo)
	return noContent(w)
}

// uploadPhoto — multipart-поле "photo"; старый файл удаляется после записи нового пути.
func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	uid, role := auth.Identity(r)
	if _, err := s.childFor(r.Context(), uid, role, id); err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPhotoSize+1<<20)
	file, _, err := r.FormFile("photo")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("photo is too large", "max 5 MiB")
		}
		return apperr.Validation("multipart field \"photo\" is required")
	}
	defer func() { _ = file.Close() }()

	name, err := s.Photos.Save(id, file)
	if err != nil {
		return err
	}
	prev, err := s.Store.SetChildPhoto(r.Context(), id, name)
	if err != nil {
		_ = s.Photos.Remove(name)
		return err
	}
	s.dropPhoto(prev)

	c, err := s.Store.GetChild(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, c)
}

func (s *Server) dropPhoto(path *string) {
	if path == nil || s.Photos == nil {
		return
	}
	if err := s.Photos.Remove(*path); err != nil {
		s.Log.Warn("photo remove failed", zap.String("file", *path), zap.Error(err))
	}
}
