package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/kindergarten/internal/models"
)

// одна запись на (ребёнок, дата): повторная отметка перезаписывает present
const upsertAttendance = `
	INSERT INTO attendance (child_id, date, present)
	VALUES ($1, $2, $3)
	ON CONFLICT (child_id, date) DO UPDATE SET present = EXCLUDED.present
	RETURNING id`

// AttendanceMark — отметка для пакетной записи.
type AttendanceMark struct {
	ChildID int64     `json:"child_id" validate:"required,gt=0"`
	Date    time.Time `json:"date" validate:"required"`
	Present bool      `json:"present"`
}

func (s *Store) MarkAttendance(ctx context.Context, a *models.Attendance) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, upsertAttendance, a.ChildID, dateOnly(a.Date), a.Present).Scan(&a.ID)
}

// MarkAttendanceBulk — все отметки одной транзакцией: либо все, либо ни одной.
func (s *Store) MarkAttendanceBulk(ctx context.Context, marks []AttendanceMark) ([]models.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := make([]models.Attendance, 0, len(marks))
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, m := range marks {
			a := models.Attendance{ChildID: m.ChildID, Date: dateOnly(m.Date), Present: m.Present}
			if err := tx.QueryRowxContext(ctx, upsertAttendance, a.ChildID, a.Date, a.Present).Scan(&a.ID); err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroupAttendance — отметки детей группы за [from, to).
func (s *Store) ListGroupAttendance(ctx context.Context, groupID int64, from, to time.Time) ([]models.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Attendance{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT a.id, a.child_id, a.date, a.present
		FROM attendance a
		JOIN children c ON c.id = a.child_id
		WHERE c.group_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date, a.child_id
	`, groupID, from, to)
	return out, err
}

func (s *Store) ListChildAttendance(ctx context.Context, childID int64, from, to time.Time) ([]models.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Attendance{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, child_id, date, present
		FROM attendance
		WHERE child_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`, childID, from, to)
	return out, err
}

// ListAttendanceRange — все отметки за период (для месячного расчёта оплаты).
func (s *Store) ListAttendanceRange(ctx context.Context, from, to time.Time) ([]models.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Attendance{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, child_id, date, present
		FROM attendance
		WHERE date >= $1 AND date < $2
		ORDER BY child_id, date
	`, from, to)
	return out, err
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
