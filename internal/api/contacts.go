package api

import (
	"net/http"

	"github.com/Spok95/kindergarten/internal/models"
)

type contactRequest struct {
	Title     string  `json:"title" validate:"required,max=200"`
	Person    *string `json:"person" validate:"omitempty,max=200"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	SortOrder int     `json:"sort_order"`
}

func (req contactRequest) contact(id int64) *models.Contact {
	return &models.Contact{
		ID: id, Title: req.Title, Person: req.Person, Phone: req.Phone,
		Email: req.Email, Address: req.Address, SortOrder: req.SortOrder,
	}
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) error {
	out, err := s.Store.ListContacts(r.Context())
	if err != nil {
		return err
	}
	return ok(w, out)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) error {
	var req contactRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	c := req.contact(0)
	if err := s.Store.CreateContact(r.Context(), c); err != nil {
		return err
	}
	return created(w, c)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req contactRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	c := req.contact(id)
	if err := s.Store.UpdateContact(r.Context(), c); err != nil {
		return err
	}
	return ok(w, c)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.Store.DeleteContact(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}
