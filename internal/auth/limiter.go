package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Spok95/kindergarten/internal/apperr"
)

// LoginLimiter ограничивает попытки входа с одного адреса.
type LoginLimiter struct {
	mu    sync.Mutex
	byKey map[string]*visitor
	rps   rate.Limit
	burst int
	now   func() time.Time
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewLoginLimiter(rps float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		byKey: make(map[string]*visitor),
		rps:   rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	v, ok := l.byKey[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.rps, l.burst)}
		l.byKey[key] = v
	}
	v.seen = l.now()
	l.mu.Unlock()

	return v.lim.Allow()
}

// Cleanup выкидывает адреса, не приходившие дольше idle. Возвращает число удалённых.
func (l *LoginLimiter) Cleanup(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cut := l.now().Add(-idle)
	n := 0
	for k, v := range l.byKey {
		if v.seen.Before(cut) {
			delete(l.byKey, k)
			n++
		}
	}
	return n
}

func (l *LoginLimiter) Middleware(fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				fail(w, r, apperr.TooManyRequests("too many login attempts, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
