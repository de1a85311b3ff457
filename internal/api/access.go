package api

import (
	"context"
	"net/http"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

// canView: родитель видит только своих детей, сотрудники — всех.
func canView(uid int64, role models.Role, c *models.Child) error {
	if role == models.Parent && c.ParentID != uid {
		return apperr.Forbidden("child belongs to another parent")
	}
	return nil
}

// canTeach: воспитатель работает только с детьми своих групп, админ — со всеми.
func (s *Server) canTeach(ctx context.Context, uid int64, role models.Role, c *models.Child) error {
	switch role {
	case models.Admin:
		return nil
	case models.Teacher:
		if c.GroupID == nil {
			return apperr.Forbidden("child is not assigned to your group")
		}
		ok, err := s.Store.IsGroupTeacher(ctx, *c.GroupID, uid)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Forbidden("child is not assigned to your group")
		}
		return nil
	}
	return apperr.Forbidden("insufficient role")
}

// canTeachGroup — то же для операций над группой целиком.
func (s *Server) canTeachGroup(ctx context.Context, uid int64, role models.Role, groupID int64) error {
	if role == models.Admin {
		return nil
	}
	if role == models.Teacher {
		ok, err := s.Store.IsGroupTeacher(ctx, groupID, uid)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return apperr.Forbidden("not a teacher of this group")
}

// childFor — ребёнок с проверкой, что пользователь вправе его видеть.
func (s *Server) childFor(ctx context.Context, uid int64, role models.Role, childID int64) (*models.Child, error) {
	c, err := s.Store.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if err := canView(uid, role, c); err != nil {
		return nil, err
	}
	return c, nil
}

// mayWriteAbout — отчёты и рекомендации: воспитатель пишет только о детях своих групп,
// админ и психолог — о любом ребёнке.
func (s *Server) mayWriteAbout(r *http.Request, childID int64) error {
	uid, role := auth.Identity(r)
	c, err := s.Store.GetChild(r.Context(), childID)
	if err != nil {
		return err
	}
	if role == models.Teacher {
		return s.canTeach(r.Context(), uid, role, c)
	}
	return nil
}
