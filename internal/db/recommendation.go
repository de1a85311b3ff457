package db

import (
	"context"

	"github.com/Spok95/kindergarten/internal/models"
)

const recommendationColumns = `id, child_id, author_id, parent_id, body, created_at, sent, sent_at`

// ListRecommendations — все рекомендации; видимость по ролям режется в aggregate.
func (s *Store) ListRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Recommendation{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+recommendationColumns+` FROM recommendations ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (s *Store) GetRecommendation(ctx context.Context, id int64) (*models.Recommendation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var r models.Recommendation
	if err := s.db.GetContext(ctx, &r, `SELECT `+recommendationColumns+` FROM recommendations WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "recommendation", id)
	}
	return &r, nil
}

// CreateRecommendation — parent_id берётся из карточки ребёнка.
func (s *Store) CreateRecommendation(ctx context.Context, r *models.Recommendation) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO recommendations (child_id, author_id, parent_id, body)
		SELECT c.id, $2, c.parent_id, $3 FROM children c WHERE c.id = $1
		RETURNING id, parent_id, created_at, sent
	`, r.ChildID, r.AuthorID, r.Body).Scan(&r.ID, &r.ParentID, &r.CreatedAt, &r.Sent)
	return notFound(err, "child", r.ChildID)
}

func (s *Store) UpdateRecommendation(ctx context.Context, id int64, body string) (*models.Recommendation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var r models.Recommendation
	err := s.db.GetContext(ctx, &r, `
		UPDATE recommendations SET body = $1 WHERE id = $2
		RETURNING `+recommendationColumns, body, id)
	if err != nil {
		return nil, notFound(err, "recommendation", id)
	}
	return &r, nil
}

func (s *Store) MarkRecommendationSent(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE recommendations SET sent = TRUE, sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "recommendation", id)
}

func (s *Store) DeleteRecommendation(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "recommendation", id)
}
