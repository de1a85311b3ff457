package models

import "time"

type Attendance struct {
	ID      int64     `db:"id" json:"id"`
	ChildID int64     `db:"child_id" json:"child_id"`
	Date    time.Time `db:"date" json:"date"`
	Present bool      `db:"present" json:"present"`
}
