package models

import "time"

type Role string

const (
	Admin        Role = "admin"
	Teacher      Role = "teacher"
	Parent       Role = "parent"
	Psychologist Role = "psychologist"
)

// Valid — роль из фиксированного списка.
func (r Role) Valid() bool {
	switch r {
	case Admin, Teacher, Parent, Psychologist:
		return true
	}
	return false
}

// IsStaff — сотрудники сада (всё, кроме родителей).
func (r Role) IsStaff() bool { return r.Valid() && r != Parent }

type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FullName       string    `db:"full_name" json:"full_name"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Role           Role      `db:"role" json:"role"`
	TelegramChatID *int64    `db:"telegram_chat_id" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
