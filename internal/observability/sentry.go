package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureRequestErr — ошибка обработчика с контекстом запроса (метод, путь, пользователь).
func CaptureRequestErr(r *http.Request, userID int64, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		if userID > 0 {
			scope.SetUser(sentry.User{ID: strconv.FormatInt(userID, 10)})
		}
		hub.CaptureException(err)
	})
}
