package db

import (
	"context"

	"github.com/lib/pq"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

// ListServices — при onlyActive скрываем выключенные услуги (для родителей).
func (s *Store) ListServices(ctx context.Context, onlyActive bool) ([]models.Service, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Service{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, description, price_per_lesson, is_active
		FROM services
		WHERE NOT $1 OR is_active
		ORDER BY name`, onlyActive)
	return out, err
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var sv models.Service
	err := s.db.GetContext(ctx, &sv, `SELECT id, name, description, price_per_lesson, is_active FROM services WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "service", id)
	}
	return &sv, nil
}

func (s *Store) CreateService(ctx context.Context, sv *models.Service) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO services (name, description, price_per_lesson, is_active)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, sv.Name, sv.Description, sv.PricePerLesson, sv.IsActive).Scan(&sv.ID)
}

func (s *Store) UpdateService(ctx context.Context, sv *models.Service) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE services SET name = $1, description = $2, price_per_lesson = $3, is_active = $4
		WHERE id = $5
	`, sv.Name, sv.Description, sv.PricePerLesson, sv.IsActive, sv.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "service", sv.ID)
}

// DeleteService отказывает, если по услуге есть заявки или учёт занятий: их лучше выключить.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var refs int
	if err := s.db.GetContext(ctx, &refs, `
		SELECT (SELECT count(*) FROM service_applications WHERE service_id = $1)
		     + (SELECT count(*) FROM service_usage WHERE service_id = $1)
	`, id); err != nil {
		return err
	}
	if refs > 0 {
		return apperr.Conflict("service has applications or usage, deactivate it instead")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "service", id)
}

const applicationColumns = `a.id, a.child_id, a.service_id, a.status, a.teacher_ids, a.created_at, a.decided_at, a.decided_by`

// ApplicationFilter — parentID ограничивает заявками своих детей; status — необязательный.
type ApplicationFilter struct {
	ParentID *int64
	Status   models.ApplicationStatus
}

func (s *Store) ListApplications(ctx context.Context, f ApplicationFilter) ([]models.ServiceApplication, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.ServiceApplication{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+applicationColumns+`
		FROM service_applications a
		JOIN children c ON c.id = a.child_id
		WHERE ($1::bigint IS NULL OR c.parent_id = $1)
		  AND ($2 = '' OR a.status = $2)
		ORDER BY a.created_at DESC, a.id DESC
	`, f.ParentID, string(f.Status))
	return out, err
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.ServiceApplication, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var a models.ServiceApplication
	err := s.db.GetContext(ctx, &a, `SELECT `+applicationColumns+` FROM service_applications a WHERE a.id = $1`, id)
	if err != nil {
		return nil, notFound(err, "service application", id)
	}
	return &a, nil
}

// CreateApplication — заявка в статусе pending. Повтор для той же пары даёт 409 по UNIQUE.
func (s *Store) CreateApplication(ctx context.Context, a *models.ServiceApplication) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	a.Status = models.ApplicationPending
	a.TeacherIDs = pq.Int64Array{}
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO service_applications (child_id, service_id)
		VALUES ($1, $2) RETURNING id, created_at
	`, a.ChildID, a.ServiceID).Scan(&a.ID, &a.CreatedAt)
}

// DecideApplication — одобрение/отказ с набором ведущих воспитателей.
func (s *Store) DecideApplication(ctx context.Context, id int64, status models.ApplicationStatus, teacherIDs []int64, by int64) (*models.ServiceApplication, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if teacherIDs == nil {
		teacherIDs = []int64{}
	}
	var a models.ServiceApplication
	err := s.db.GetContext(ctx, &a, `
		UPDATE service_applications a
		SET status = $1, teacher_ids = $2, decided_at = now(), decided_by = $3
		WHERE a.id = $4
		RETURNING `+applicationColumns,
		string(status), pq.Array(teacherIDs), by, id)
	if err != nil {
		return nil, notFound(err, "service application", id)
	}
	return &a, nil
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM service_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "service application", id)
}
