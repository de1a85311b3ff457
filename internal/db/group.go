package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

const groupSelect = `
	SELECT g.id, g.name, g.age_min, g.age_max, g.is_paid, g.created_at,
	       COALESCE(ARRAY(SELECT gt.teacher_id FROM group_teachers gt WHERE gt.group_id = g.id ORDER BY gt.teacher_id), '{}') AS teacher_ids
	FROM groups g`

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Group{}
	err := s.db.SelectContext(ctx, &out, groupSelect+` ORDER BY g.name`)
	return out, err
}

// ListGroupsForTeacher — группы, где пользователь числится воспитателем.
func (s *Store) ListGroupsForTeacher(ctx context.Context, teacherID int64) ([]models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Group{}
	err := s.db.SelectContext(ctx, &out, groupSelect+`
		WHERE EXISTS (SELECT 1 FROM group_teachers gt WHERE gt.group_id = g.id AND gt.teacher_id = $1)
		ORDER BY g.name`, teacherID)
	return out, err
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var g models.Group
	if err := s.db.GetContext(ctx, &g, groupSelect+` WHERE g.id = $1`, id); err != nil {
		return nil, notFound(err, "group", id)
	}
	return &g, nil
}

// CreateGroup — группа и её воспитатели одной транзакцией.
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO groups (name, age_min, age_max, is_paid)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, g.Name, g.AgeMin, g.AgeMax, g.IsPaid).Scan(&g.ID, &g.CreatedAt); err != nil {
			return err
		}
		return replaceTeachers(ctx, tx, g.ID, g.TeacherIDs)
	})
}

func (s *Store) UpdateGroup(ctx context.Context, g *models.Group) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			UPDATE groups SET name = $1, age_min = $2, age_max = $3, is_paid = $4
			WHERE id = $5
			RETURNING created_at
		`, g.Name, g.AgeMin, g.AgeMax, g.IsPaid, g.ID).Scan(&g.CreatedAt)
		if err != nil {
			return notFound(err, "group", g.ID)
		}
		return replaceTeachers(ctx, tx, g.ID, g.TeacherIDs)
	})
}

// SetGroupTeachers полностью заменяет список воспитателей группы.
func (s *Store) SetGroupTeachers(ctx context.Context, groupID int64, teacherIDs []int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("group", groupID)
		}
		return replaceTeachers(ctx, tx, groupID, teacherIDs)
	})
}

func replaceTeachers(ctx context.Context, tx *sqlx.Tx, groupID int64, teacherIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_teachers WHERE group_id = $1`, groupID); err != nil {
		return err
	}
	if len(teacherIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO group_teachers (group_id, teacher_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, groupID, pq.Array(teacherIDs))
	return err
}

// DeleteGroup: дети остаются без группы, распорядок, меню и связи с воспитателями удаляются.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, q := range []string{
			`UPDATE children SET group_id = NULL, updated_at = now() WHERE group_id = $1`,
			`DELETE FROM daily_schedule WHERE group_id = $1`,
			`DELETE FROM weekly_menu WHERE group_id = $1`,
			`DELETE FROM group_teachers WHERE group_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return mustAffect(res, "group", id)
	})
}

// IsGroupTeacher — воспитатель ли пользователь в этой группе.
func (s *Store) IsGroupTeacher(ctx context.Context, groupID, teacherID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var ok bool
	err := s.db.GetContext(ctx, &ok, `
		SELECT EXISTS (SELECT 1 FROM group_teachers WHERE group_id = $1 AND teacher_id = $2)
	`, groupID, teacherID)
	return ok, err
}
