package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/ctxutil"
	"github.com/Spok95/kindergarten/internal/models"
)

func TestTokens_RoundTrip(t *testing.T) {
	tok := NewTokens("secret", time.Hour)
	raw, exp, err := tok.Issue(42, models.Teacher)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("срок уже истёк: %v", exp)
	}
	c, err := tok.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if c.UserID != 42 || c.Role != models.Teacher {
		t.Fatalf("неожиданные claims: %+v", c)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tok := NewTokens("secret", time.Hour)
	raw, _, _ := tok.Issue(1, models.Admin)

	if _, err := NewTokens("other", time.Hour).Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("чужой секрет должен отклоняться, получили %v", err)
	}

	old := NewTokens("secret", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := old.Issue(1, models.Admin)
	if _, err := tok.Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("просроченный токен должен отклоняться, получили %v", err)
	}

	if _, err := tok.Parse("not.a.token"); err == nil {
		t.Fatal("мусор должен отклоняться")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("qwerty12")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(h, "qwerty12") {
		t.Fatal("верный пароль не принят")
	}
	if CheckPassword(h, "qwerty13") {
		t.Fatal("неверный пароль принят")
	}
}

func statusWriter(w http.ResponseWriter, _ *http.Request, err error) {
	w.WriteHeader(apperr.From(err).Status())
}

func TestAuthenticateAndRoles(t *testing.T) {
	tok := NewTokens("secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxutil.UserID(r.Context()) == 0 {
			t.Error("личность не попала в контекст")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := tok.Authenticate(statusWriter)(RequireRoles(statusWriter, models.Admin)(ok))

	admin, _, _ := tok.Issue(1, models.Admin)
	parent, _, _ := tok.Issue(2, models.Parent)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"без токена", "", http.StatusUnauthorized},
		{"битый токен", "Bearer abc", http.StatusUnauthorized},
		{"чужая роль", "Bearer " + parent, http.StatusForbidden},
		{"админ", "Bearer " + admin, http.StatusNoContent},
		{"схема в другом регистре", "bearer " + admin, http.StatusNoContent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != c.want {
				t.Fatalf("ожидали %d, получили %d", c.want, rec.Code)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiter(0.001, 2)
	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatal("первые две попытки должны пройти")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("третья попытка подряд должна быть отклонена")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("другой адрес не должен страдать")
	}

	l.now = func() time.Time { return time.Now().Add(time.Hour) }
	if n := l.Cleanup(10 * time.Minute); n != 2 {
		t.Fatalf("ожидали удаление двух адресов, удалено %d", n)
	}
}
