package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

const discountColumns = `id, child_id, percent, reason, valid_from, valid_to`

// ListDiscounts — скидки ребёнка (childID > 0) или все.
func (s *Store) ListDiscounts(ctx context.Context, childID int64) ([]models.Discount, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Discount{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+discountColumns+` FROM discounts
		WHERE $1::bigint = 0 OR child_id = $1
		ORDER BY child_id, valid_from, id`, childID)
	return out, err
}

// ListDiscountsActive — скидки, действующие хотя бы день в [from, to).
func (s *Store) ListDiscountsActive(ctx context.Context, from, to time.Time) ([]models.Discount, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Discount{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+discountColumns+` FROM discounts
		WHERE valid_from < $2 AND (valid_to IS NULL OR valid_to >= $1)
		ORDER BY child_id, id`, from, to)
	return out, err
}

func (s *Store) GetDiscount(ctx context.Context, id int64) (*models.Discount, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d models.Discount
	if err := s.db.GetContext(ctx, &d, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "discount", id)
	}
	return &d, nil
}

func (s *Store) CreateDiscount(ctx context.Context, d *models.Discount) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO discounts (child_id, percent, reason, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, d.ChildID, d.Percent, d.Reason, d.ValidFrom, d.ValidTo).Scan(&d.ID)
}

func (s *Store) UpdateDiscount(ctx context.Context, d *models.Discount) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE discounts SET child_id = $1, percent = $2, reason = $3, valid_from = $4, valid_to = $5
		WHERE id = $6
	`, d.ChildID, d.Percent, d.Reason, d.ValidFrom, d.ValidTo, d.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "discount", d.ID)
}

func (s *Store) DeleteDiscount(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "discount", id)
}

// billableUsage — услуга активна и заявка ребёнка на неё одобрена.
const billableUsage = `s.is_active AND EXISTS (
	SELECT 1 FROM service_applications sa
	WHERE sa.child_id = u.child_id AND sa.service_id = u.service_id AND sa.status = 'approved')`

// UpsertUsage — число посещённых занятий за месяц; повтор перезаписывает.
// Без одобренной заявки на активную услугу — Conflict.
func (s *Store) UpsertUsage(ctx context.Context, u *models.ServiceUsage) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowxContext(ctx, `
		WITH u AS (
		    SELECT $1::bigint AS child_id, $2::bigint AS service_id
		), ok AS (
		    SELECT u.child_id, s.id, s.price_per_lesson
		    FROM u JOIN services s ON s.id = u.service_id
		    WHERE `+billableUsage+`
		), up AS (
		    INSERT INTO service_usage (child_id, service_id, month, lessons_attended)
		    SELECT ok.child_id, ok.id, $3::date, $4::int FROM ok
		    ON CONFLICT (child_id, service_id, month) DO UPDATE SET lessons_attended = EXCLUDED.lessons_attended
		    RETURNING service_id
		)
		SELECT ok.price_per_lesson FROM up JOIN ok ON ok.id = up.service_id
	`, u.ChildID, u.ServiceID, u.Month, u.LessonsAttended).Scan(&u.PricePerLesson)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Conflict("child has no approved application for an active service")
	}
	return err
}

// ListUsage — оплачиваемый учёт занятий за месяц вместе с ценой занятия.
func (s *Store) ListUsage(ctx context.Context, month time.Time) ([]models.ServiceUsage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.ServiceUsage{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT u.child_id, u.service_id, u.month, u.lessons_attended, s.price_per_lesson
		FROM service_usage u
		JOIN services s ON s.id = u.service_id
		WHERE u.month = $1 AND `+billableUsage+`
		ORDER BY u.child_id, u.service_id
	`, month)
	return out, err
}

// ListBillingChildren — дети с группой и признаком платной группы.
// groupID = 0 — все дети, parentID = 0 — без фильтра по родителю.
func (s *Store) ListBillingChildren(ctx context.Context, groupID, parentID int64) ([]models.BillingChild, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.BillingChild{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT c.id, c.full_name, c.parent_id, c.group_id, g.name AS group_name,
		       COALESCE(g.is_paid, FALSE) AS paid_group
		FROM children c
		LEFT JOIN groups g ON g.id = c.group_id
		WHERE ($1::bigint = 0 OR c.group_id = $1)
		  AND ($2::bigint = 0 OR c.parent_id = $2)
		ORDER BY g.name NULLS LAST, c.full_name
	`, groupID, parentID)
	return out, err
}
