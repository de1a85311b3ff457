package db

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/models"
)

const userColumns = `id, email, password_hash, full_name, phone, role, telegram_chat_id, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, strings.ToLower(u.Email), u.PasswordHash, u.FullName, u.Phone, string(u.Role), u.TelegramChatID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &u, nil
}

// ListUsers — все пользователи, при role != "" только с этой ролью.
func (s *Store) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.User{}
	var err error
	if role == "" {
		err = s.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users ORDER BY LOWER(full_name)`)
	} else {
		err = s.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY LOWER(full_name)`, string(role))
	}
	return out, err
}

// UpdateUser меняет контактные поля. Роль не меняется.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.db.QueryRowxContext(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, phone = $3, telegram_chat_id = $4, updated_at = now()
		WHERE id = $5
		RETURNING role, created_at, updated_at
	`, strings.ToLower(u.Email), u.FullName, u.Phone, u.TelegramChatID, u.ID).Scan(&u.Role, &u.CreatedAt, &u.UpdatedAt)
	return notFound(err, "user", u.ID)
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "user", id)
}

// DeleteUser отказывает, пока на пользователя ссылаются дети или рекомендации.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var refs int
		if err := tx.GetContext(ctx, &refs, `
			SELECT (SELECT count(*) FROM children WHERE parent_id = $1)
			     + (SELECT count(*) FROM recommendations WHERE author_id = $1 OR parent_id = $1)
		`, id); err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("user is referenced by children or recommendations")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM group_teachers WHERE teacher_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return mustAffect(res, "user", id)
	})
}
