package models

import "time"

type Discount struct {
	ID        int64      `db:"id" json:"id"`
	ChildID   int64      `db:"child_id" json:"child_id"`
	Percent   float64    `db:"percent" json:"percent"`
	Reason    string     `db:"reason" json:"reason"`
	ValidFrom time.Time  `db:"valid_from" json:"valid_from"`
	ValidTo   *time.Time `db:"valid_to" json:"valid_to,omitempty"`
}

// ActiveIn — действует ли скидка хотя бы один день в [from, to).
func (d Discount) ActiveIn(from, to time.Time) bool {
	if !d.ValidFrom.Before(to) {
		return false
	}
	return d.ValidTo == nil || !d.ValidTo.Before(from)
}

// BillingChild — ребёнок с признаком платной группы для месячного расчёта.
type BillingChild struct {
	ID        int64   `db:"id" json:"id"`
	FullName  string  `db:"full_name" json:"full_name"`
	ParentID  int64   `db:"parent_id" json:"parent_id"`
	GroupID   *int64  `db:"group_id" json:"group_id,omitempty"`
	GroupName *string `db:"group_name" json:"group_name,omitempty"`
	PaidGroup bool    `db:"paid_group" json:"paid_group"`
}
