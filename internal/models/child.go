package models

import (
	"time"

	"github.com/lib/pq"
)

type Child struct {
	ID         int64          `db:"id" json:"id"`
	FullName   string         `db:"full_name" json:"full_name"`
	BirthDate  time.Time      `db:"birth_date" json:"birth_date"`
	ParentID   int64          `db:"parent_id" json:"parent_id"`
	GroupID    *int64         `db:"group_id" json:"group_id,omitempty"`
	Allergies  pq.StringArray `db:"allergies" json:"allergies"`
	PhotoPath  *string        `db:"photo_path" json:"photo_path,omitempty"`
	ServiceIDs pq.Int64Array  `db:"service_ids" json:"service_ids"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

type Group struct {
	ID         int64         `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	AgeMin     int           `db:"age_min" json:"age_min"`
	AgeMax     int           `db:"age_max" json:"age_max"`
	IsPaid     bool          `db:"is_paid" json:"is_paid"`
	TeacherIDs pq.Int64Array `db:"teacher_ids" json:"teacher_ids"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}
