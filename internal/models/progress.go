package models

import "time"

// ProgressReport — оценки навыков 0–10 и физические показатели на дату.
type ProgressReport struct {
	ID         int64     `db:"id" json:"id"`
	ChildID    int64     `db:"child_id" json:"child_id"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	ReportDate time.Time `db:"report_date" json:"report_date"`
	Speech     int       `db:"speech" json:"speech"`
	Motor      int       `db:"motor" json:"motor"`
	Social     int       `db:"social" json:"social"`
	Cognitive  int       `db:"cognitive" json:"cognitive"`
	Creativity int       `db:"creativity" json:"creativity"`
	HeightCM   *float64  `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG   *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
}
