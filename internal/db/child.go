package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/kindergarten/internal/models"
)

// service_ids — услуги по одобренным заявкам
const childSelect = `
	SELECT c.id, c.full_name, c.birth_date, c.parent_id, c.group_id, c.allergies, c.photo_path,
	       c.created_at, c.updated_at,
	       COALESCE(ARRAY(
	           SELECT sa.service_id FROM service_applications sa
	           WHERE sa.child_id = c.id AND sa.status = 'approved'
	           ORDER BY sa.service_id
	       ), '{}') AS service_ids
	FROM children c`

// ChildFilter — необязательные фильтры списка детей.
type ChildFilter struct {
	ParentID *int64
	GroupID  *int64
	// TeacherID — только дети из групп этого воспитателя
	TeacherID *int64
}

func (s *Store) ListChildren(ctx context.Context, f ChildFilter) ([]models.Child, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := childSelect + `
		WHERE ($1::bigint IS NULL OR c.parent_id = $1)
		  AND ($2::bigint IS NULL OR c.group_id = $2)
		  AND ($3::bigint IS NULL OR EXISTS (
		      SELECT 1 FROM group_teachers gt WHERE gt.group_id = c.group_id AND gt.teacher_id = $3))
		ORDER BY c.full_name`

	out := []models.Child{}
	err := s.db.SelectContext(ctx, &out, q, f.ParentID, f.GroupID, f.TeacherID)
	return out, err
}

func (s *Store) GetChild(ctx context.Context, id int64) (*models.Child, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c models.Child
	if err := s.db.GetContext(ctx, &c, childSelect+` WHERE c.id = $1`, id); err != nil {
		return nil, notFound(err, "child", id)
	}
	return &c, nil
}

func (s *Store) CreateChild(ctx context.Context, c *models.Child) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	c.ServiceIDs = []int64{}
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO children (full_name, birth_date, parent_id, group_id, allergies)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.FullName, c.BirthDate, c.ParentID, c.GroupID, c.Allergies).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateChild: при смене родителя рекомендации ребёнка переходят новому родителю той же транзакцией.
func (s *Store) UpdateChild(ctx context.Context, c *models.Child) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			UPDATE children
			SET full_name = $1, birth_date = $2, parent_id = $3, group_id = $4, allergies = $5, updated_at = now()
			WHERE id = $6
			RETURNING photo_path, created_at, updated_at
		`, c.FullName, c.BirthDate, c.ParentID, c.GroupID, c.Allergies, c.ID).Scan(&c.PhotoPath, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return notFound(err, "child", c.ID)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE recommendations SET parent_id = $1 WHERE child_id = $2 AND parent_id <> $1
		`, c.ParentID, c.ID)
		return err
	})
}

// SetChildPhoto сохраняет новый путь и возвращает прежний (для удаления файла).
func (s *Store) SetChildPhoto(ctx context.Context, id int64, path string) (prev *string, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = s.db.QueryRowxContext(ctx, `
		UPDATE children c SET photo_path = $1, updated_at = now()
		FROM (SELECT id, photo_path FROM children WHERE id = $2 FOR UPDATE) old
		WHERE c.id = old.id
		RETURNING old.photo_path
	`, path, id).Scan(&prev)
	return prev, notFound(err, "child", id)
}

// ListPhotoPaths — все пути фото, на которые ссылаются дети.
func (s *Store) ListPhotoPaths(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []string{}
	err := s.db.SelectContext(ctx, &out, `SELECT photo_path FROM children WHERE photo_path IS NOT NULL`)
	return out, err
}

// DeleteChild удаляет ребёнка и всё, что на него ссылается, одной транзакцией.
// Возвращает путь фото, чтобы вызывающий удалил файл.
func (s *Store) DeleteChild(ctx context.Context, id int64) (photo *string, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, q := range []string{
			`DELETE FROM attendance WHERE child_id = $1`,
			`DELETE FROM recommendations WHERE child_id = $1`,
			`DELETE FROM progress_reports WHERE child_id = $1`,
			`DELETE FROM service_applications WHERE child_id = $1`,
			`DELETE FROM service_usage WHERE child_id = $1`,
			`DELETE FROM discounts WHERE child_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}
		if err := tx.QueryRowxContext(ctx, `DELETE FROM children WHERE id = $1 RETURNING photo_path`, id).Scan(&photo); err != nil {
			return notFound(err, "child", id)
		}
		return nil
	})
	return photo, err
}
