package db

import (
	"context"

	"github.com/Spok95/kindergarten/internal/models"
)

const progressColumns = `id, child_id, author_id, report_date, speech, motor, social, cognitive, creativity,
	height_cm, weight_kg, notes`

func (s *Store) ListChildProgress(ctx context.Context, childID int64) ([]models.ProgressReport, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.ProgressReport{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+progressColumns+`
		FROM progress_reports WHERE child_id = $1 ORDER BY report_date, id`, childID)
	return out, err
}

func (s *Store) GetProgress(ctx context.Context, id int64) (*models.ProgressReport, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.ProgressReport
	if err := s.db.GetContext(ctx, &p, `SELECT `+progressColumns+` FROM progress_reports WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "progress report", id)
	}
	return &p, nil
}

func (s *Store) CreateProgress(ctx context.Context, p *models.ProgressReport) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p.ReportDate = dateOnly(p.ReportDate)
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO progress_reports
		    (child_id, author_id, report_date, speech, motor, social, cognitive, creativity, height_cm, weight_kg, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, p.ChildID, p.AuthorID, p.ReportDate, p.Speech, p.Motor, p.Social, p.Cognitive, p.Creativity,
		p.HeightCM, p.WeightKG, p.Notes).Scan(&p.ID)
}

// UpdateProgress меняет оценки и показатели; ребёнок и автор не меняются.
func (s *Store) UpdateProgress(ctx context.Context, p *models.ProgressReport) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p.ReportDate = dateOnly(p.ReportDate)
	err := s.db.QueryRowxContext(ctx, `
		UPDATE progress_reports
		SET report_date = $1, speech = $2, motor = $3, social = $4, cognitive = $5, creativity = $6,
		    height_cm = $7, weight_kg = $8, notes = $9
		WHERE id = $10
		RETURNING child_id, author_id
	`, p.ReportDate, p.Speech, p.Motor, p.Social, p.Cognitive, p.Creativity,
		p.HeightCM, p.WeightKG, p.Notes, p.ID).Scan(&p.ChildID, &p.AuthorID)
	return notFound(err, "progress report", p.ID)
}

func (s *Store) DeleteProgress(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM progress_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "progress report", id)
}
