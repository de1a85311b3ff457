package models

import (
	"time"

	"github.com/lib/pq"
)

type Service struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Description    *string `db:"description" json:"description,omitempty"`
	PricePerLesson float64 `db:"price_per_lesson" json:"price_per_lesson"`
	IsActive       bool    `db:"is_active" json:"is_active"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

type ServiceApplication struct {
	ID         int64             `db:"id" json:"id"`
	ChildID    int64             `db:"child_id" json:"child_id"`
	ServiceID  int64             `db:"service_id" json:"service_id"`
	Status     ApplicationStatus `db:"status" json:"status"`
	TeacherIDs pq.Int64Array     `db:"teacher_ids" json:"teacher_ids"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	DecidedAt  *time.Time        `db:"decided_at" json:"decided_at,omitempty"`
	DecidedBy  *int64            `db:"decided_by" json:"decided_by,omitempty"`
}

// ServiceUsage — сколько занятий доп. услуги ребёнок посетил за месяц.
type ServiceUsage struct {
	ChildID         int64     `db:"child_id" json:"child_id"`
	ServiceID       int64     `db:"service_id" json:"service_id"`
	Month           time.Time `db:"month" json:"month"`
	LessonsAttended int       `db:"lessons_attended" json:"lessons_attended"`
	PricePerLesson  float64   `db:"price_per_lesson" json:"price_per_lesson"`
}
