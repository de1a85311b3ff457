package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestFrom_PostgresCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505", ConstraintName: "attendance_child_id_date_key"}, http.StatusConflict},
		{"pgx fk", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{"pq check", &pq.Error{Code: "23514"}, http.StatusBadRequest},
		{"pq unique wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"typed", NotFound("child", 3), http.StatusNotFound},
		{"typed wrapped", fmt.Errorf("ctx: %w", Forbidden("nope")), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := From(tc.err).Status(); got != tc.status {
				t.Fatalf("ожидали %d, получили %d", tc.status, got)
			}
		})
	}
}

func TestFrom_KeepsConstraintName(t *testing.T) {
	e := From(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if len(e.Details) != 1 || e.Details[0] != "users_email_key" {
		t.Fatalf("ожидали имя ограничения в деталях, получили %v", e.Details)
	}
	if !IsKind(e, KindConflict) {
		t.Fatal("ожидали KindConflict")
	}
}

func TestFrom_Nil(t *testing.T) {
	if From(nil) != nil {
		t.Fatal("nil должен остаться nil")
	}
}
