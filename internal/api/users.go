package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type createUserRequest struct {
	registerRequest
	Role           models.Role `json:"role" validate:"required,role"`
	TelegramChatID *int64      `json:"telegram_chat_id"`
}

type updateUserRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"full_name" validate:"required,max=200"`
	Phone          *string `json:"phone" validate:"omitempty,max=32"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

type passwordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	u, err := s.Store.GetUserByEmail(r.Context(), req.Email)
	if apperr.IsKind(err, apperr.KindNotFound) || (err == nil && !auth.CheckPassword(u.PasswordHash, req.Password)) {
		return apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return err
	}
	return s.issue(w, http.StatusOK, u)
}

// register — самостоятельная регистрация доступна только родителям.
func (s *Server) register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	u, err := s.newUser(r.Context(), req, models.Parent, nil)
	if err != nil {
		return err
	}
	return s.issue(w, http.StatusCreated, u)
}

func (s *Server) issue(w http.ResponseWriter, status int, u *models.User) error {
	token, exp, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return err
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: exp, User: u})
	return nil
}

func (s *Server) newUser(ctx context.Context, req registerRequest, role models.Role, chatID *int64) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:          req.Email,
		PasswordHash:   hash,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Role:           role,
		TelegramChatID: chatID,
	}
	if err := s.Store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) error {
	uid, _ := auth.Identity(r)
	u, err := s.Store.GetUserByID(r.Context(), uid)
	if err != nil {
		return err
	}
	return ok(w, u)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) error {
	uid, _ := auth.Identity(r)
	return s.saveUser(w, r, uid)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) error {
	uid, _ := auth.Identity(r)
	var req passwordRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	u, err := s.Store.GetUserByID(r.Context(), uid)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, req.OldPassword) {
		return apperr.Validation("validation failed", "old_password: does not match")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Store.UpdatePassword(r.Context(), uid, hash); err != nil {
		return err
	}
	return noContent(w)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) error {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		return apperr.Validation("invalid query parameter", "role: must be one of admin teacher parent psychologist")
	}
	users, err := s.Store.ListUsers(r.Context(), role)
	if err != nil {
		return err
	}
	return ok(w, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	u, err := s.newUser(r.Context(), req.registerRequest, req.Role, req.TelegramChatID)
	if err != nil {
		return err
	}
	return created(w, u)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	u, err := s.Store.GetUserByID(r.Context(), id)
	if err != nil {
		return err
	}
	return ok(w, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	return s.saveUser(w, r, id)
}

// saveUser — роль через API не меняется ни админом, ни самим пользователем.
func (s *Server) saveUser(w http.ResponseWriter, r *http.Request, id int64) error {
	var req updateUserRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	u := &models.User{
		ID:             id,
		Email:          req.Email,
		FullName:       req.FullName,
		Phone:          req.Phone,
		TelegramChatID: req.TelegramChatID,
	}
	if err := s.Store.UpdateUser(r.Context(), u); err != nil {
		return err
	}
	return ok(w, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if uid, _ := auth.Identity(r); uid == id {
		return apperr.Conflict("cannot delete yourself")
	}
	if err := s.Store.DeleteUser(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}
