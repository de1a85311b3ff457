// Package api — HTTP-маршруты поверх хранилища и агрегаторов.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/config"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/notify"
	"github.com/Spok95/kindergarten/internal/storage"
)

// Notifier — доставка рекомендаций (реализует notify.Notifier).
type Notifier interface {
	Send(ctx context.Context, r notify.Recipient, m notify.Message) error
}

// Deps — всё, что нужно обработчикам; создаётся в main и передаётся явно.
type Deps struct {
	Store    *db.Store
	Tokens   *auth.Tokens
	Limiter  *auth.LoginLimiter
	Photos   *storage.Photos
	Notifier Notifier
	Config   *config.Config
	Log      *zap.Logger
}

type Server struct {
	Deps
	validate *validator.Validate
}

func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Server{Deps: d, validate: newValidator()}
}

func (s *Server) rates() (daily, surcharge float64) {
	return s.Config.DailyRate, s.Config.PaidGroupSurcharge
}

func (s *Server) loc() *time.Location {
	if s.Config.Location != nil {
		return s.Config.Location
	}
	return time.UTC
}

type HTTPServer struct {
	srv  *http.Server
	done chan struct{}
}

// Start поднимает сервер и гасит его по отмене ctx.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) *HTTPServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	hs := &HTTPServer{srv: srv, done: make(chan struct{})}

	go func() {
		log.Info("http listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
		}
	}()

	go func() {
		defer close(hs.done)
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return hs
}

// Wait — дождаться завершения Shutdown.
func (h *HTTPServer) Wait() { <-h.done }
