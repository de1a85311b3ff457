package models

import "time"

type Recommendation struct {
	ID        int64      `db:"id" json:"id"`
	ChildID   int64      `db:"child_id" json:"child_id"`
	AuthorID  int64      `db:"author_id" json:"author_id"`
	ParentID  int64      `db:"parent_id" json:"parent_id"`
	Body      string     `db:"body" json:"body"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Sent      bool       `db:"sent" json:"sent"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at,omitempty"`
}
