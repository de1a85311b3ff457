package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/aggregate"
	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/models"
	"github.com/Spok95/kindergarten/internal/notify"
)

type recommendationRequest struct {
	ChildID int64  `json:"child_id" validate:"required,gt=0"`
	Body    string `json:"body" validate:"required,max=5000"`
}

type recommendationBody struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// listRecommendations — плоский список, видимый пользователю, новые сверху.
func (s *Server) listRecommendations(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	all, err := s.Store.ListRecommendations(r.Context())
	if err != nil {
		return err
	}
	out := aggregate.FilterRecommendations(all, role, uid)
	if childID, err := queryID(r, "child_id"); err != nil {
		return err
	} else if childID > 0 {
		out = byChild(out, childID)
	}
	aggregate.SortRecommendations(out)
	return ok(w, out)
}

func byChild(recs []models.Recommendation, childID int64) []models.Recommendation {
	out := recs[:0]
	for _, rec := range recs {
		if rec.ChildID == childID {
			out = append(out, rec)
		}
	}
	return out
}

// recommendationTree — группа → ребёнок → рекомендации для сотрудников.
func (s *Server) recommendationTree(w http.ResponseWriter, r *http.Request) error {
	uid, role := auth.Identity(r)
	ctx := r.Context()
	all, err := s.Store.ListRecommendations(ctx)
	if err != nil {
		return err
	}
	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		return err
	}
	children, err := s.Store.ListChildren(ctx, db.ChildFilter{})
	if err != nil {
		return err
	}
	tree := aggregate.BuildRecommendationTree(aggregate.FilterRecommendations(all, role, uid), groups, children)
	for _, rec := range tree.Unresolved {
		s.Log.Warn("recommendation references unknown child",
			zap.Int64("recommendation_id", rec.ID), zap.Int64("child_id", rec.ChildID))
	}
	return ok(w, tree)
}

func (s *Server) createRecommendation(w http.ResponseWriter, r *http.Request) error {
	var req recommendationRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if err := s.mayWriteAbout(r, req.ChildID); err != nil {
		return err
	}
	uid, _ := auth.Identity(r)
	rec := &models.Recommendation{ChildID: req.ChildID, AuthorID: uid, Body: req.Body}
	if err := s.Store.CreateRecommendation(r.Context(), rec); err != nil {
		return err
	}
	return created(w, rec)
}

func (s *Server) updateRecommendation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req recommendationBody
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if _, err := s.ownRecommendation(r, id); err != nil {
		return err
	}
	rec, err := s.Store.UpdateRecommendation(r.Context(), id, req.Body)
	if err != nil {
		return err
	}
	return ok(w, rec)
}

func (s *Server) deleteRecommendation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if _, err := s.ownRecommendation(r, id); err != nil {
		return err
	}
	if err := s.Store.DeleteRecommendation(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

// sendRecommendation — письмо родителю (и Telegram, если привязан), затем отметка sent.
func (s *Server) sendRecommendation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	rec, err := s.ownRecommendation(r, id)
	if err != nil {
		return err
	}
	if s.Notifier == nil {
		return apperr.Conflict("notifications are not configured")
	}
	ctx := r.Context()
	child, err := s.Store.GetChild(ctx, rec.ChildID)
	if err != nil {
		return err
	}
	parent, err := s.Store.GetUserByID(ctx, rec.ParentID)
	if err != nil {
		return err
	}
	author, err := s.Store.GetUserByID(ctx, rec.AuthorID)
	if err != nil {
		return err
	}
	msg := notify.RecommendationMessage(*child, *author, *rec, s.loc())
	if err := s.Notifier.Send(ctx, notify.RecipientOf(*parent), msg); err != nil {
		return apperr.Internal("recommendation delivery failed", err)
	}
	if err := s.Store.MarkRecommendationSent(ctx, id); err != nil {
		return err
	}
	sent, err := s.Store.GetRecommendation(ctx, id)
	if err != nil {
		return err
	}
	return ok(w, sent)
}

// ownRecommendation — менять и отправлять может автор или админ.
func (s *Server) ownRecommendation(r *http.Request, id int64) (*models.Recommendation, error) {
	rec, err := s.Store.GetRecommendation(r.Context(), id)
	if err != nil {
		return nil, err
	}
	uid, role := auth.Identity(r)
	if role != models.Admin && rec.AuthorID != uid {
		return nil, apperr.Forbidden("only the author can change this recommendation")
	}
	return rec, nil
}
