package db

import (
	"context"

	"github.com/Spok95/kindergarten/internal/models"
)

func (s *Store) ListSchedule(ctx context.Context, groupID int64) ([]models.ScheduleEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.ScheduleEntry{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, group_id, start_time, end_time, action
		FROM daily_schedule WHERE group_id = $1
		ORDER BY start_time, id
	`, groupID)
	return out, err
}

func (s *Store) GetScheduleEntry(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var e models.ScheduleEntry
	err := s.db.GetContext(ctx, &e, `SELECT id, group_id, start_time, end_time, action FROM daily_schedule WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "schedule entry", id)
	}
	return &e, nil
}

func (s *Store) CreateScheduleEntry(ctx context.Context, e *models.ScheduleEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO daily_schedule (group_id, start_time, end_time, action)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, e.GroupID, e.StartTime, e.EndTime, e.Action).Scan(&e.ID)
}

func (s *Store) UpdateScheduleEntry(ctx context.Context, e *models.ScheduleEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE daily_schedule SET group_id = $1, start_time = $2, end_time = $3, action = $4
		WHERE id = $5
	`, e.GroupID, e.StartTime, e.EndTime, e.Action, e.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "schedule entry", e.ID)
}

func (s *Store) DeleteScheduleEntry(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_schedule WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "schedule entry", id)
}
