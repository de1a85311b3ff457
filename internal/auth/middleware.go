package auth

import (
	"net/http"
	"strings"

	"github.com/Spok95/kindergarten/internal/apperr"
	"github.com/Spok95/kindergarten/internal/ctxutil"
	"github.com/Spok95/kindergarten/internal/models"
)

// ErrorWriter — как отдать ошибку клиенту (реализует слой api).
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate проверяет Bearer-токен и кладёт личность в контекст.
func (t *Tokens) Authenticate(fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				fail(w, r, apperr.Unauthorized("missing bearer token"))
				return
			}
			claims, err := t.Parse(raw)
			if err != nil {
				fail(w, r, apperr.Unauthorized("invalid or expired token"))
				return
			}
			ctx := ctxutil.WithIdentity(r.Context(), ctxutil.Identity{UserID: claims.UserID, Role: string(claims.Role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles пропускает только перечисленные роли.
func RequireRoles(fail ErrorWriter, roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := ctxutil.IdentityFrom(r.Context())
			if !ok {
				fail(w, r, apperr.Unauthorized("authentication required"))
				return
			}
			if _, ok := allowed[models.Role(id.Role)]; !ok {
				fail(w, r, apperr.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Identity — личность из контекста с ролью в виде models.Role.
func Identity(r *http.Request) (int64, models.Role) {
	id, _ := ctxutil.IdentityFrom(r.Context())
	return id.UserID, models.Role(id.Role)
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
