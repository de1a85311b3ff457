package db

import (
	"context"

	"github.com/Spok95/kindergarten/internal/models"
)

func (s *Store) ListContacts(ctx context.Context) ([]models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	out := []models.Contact{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, title, person, phone, email, address, sort_order
		FROM contacts ORDER BY sort_order, id`)
	return out, err
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO contacts (title, person, phone, email, address, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, c.Title, c.Person, c.Phone, c.Email, c.Address, c.SortOrder).Scan(&c.ID)
}

func (s *Store) UpdateContact(ctx context.Context, c *models.Contact) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET title = $1, person = $2, phone = $3, email = $4, address = $5, sort_order = $6
		WHERE id = $7
	`, c.Title, c.Person, c.Phone, c.Email, c.Address, c.SortOrder, c.ID)
	if err != nil {
		return err
	}
	return mustAffect(res, "contact", c.ID)
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "contact", id)
}
