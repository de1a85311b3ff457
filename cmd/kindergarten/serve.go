package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/api"
	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/jobs"
	"github.com/Spok95/kindergarten/internal/notify"
	"github.com/Spok95/kindergarten/internal/observability"
	"github.com/Spok95/kindergarten/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API (миграции применяются при старте)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	log := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	} else {
		defer flush()
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.DB().Close() }()

	if err := db.Migrate(ctx, store.DB().DB); err != nil {
		return err
	}

	photos, err := storage.NewPhotos(cfg.UploadDir)
	if err != nil {
		return err
	}
	limiter := auth.NewLoginLimiter(cfg.LoginRPS, cfg.LoginBurst)

	srv := api.New(api.Deps{
		Store:    store,
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Limiter:  limiter,
		Photos:   photos,
		Notifier: buildNotifier(log),
		Config:   cfg,
		Log:      log,
	})

	runner := jobs.New(ctx, log)
	runner.Every(10*time.Minute, "login_limiter_cleanup", jobs.LimiterCleanup(limiter, 30*time.Minute, log))
	runner.Every(6*time.Hour, "photo_sweep", jobs.PhotoSweep(store, photos, 24*time.Hour, log))
	runner.Every(time.Minute, "db_ping", func(ctx context.Context) error { return store.Ping(ctx) })

	hs := api.Start(ctx, cfg.HTTPAddr, srv.Router(), log)
	<-ctx.Done()
	log.Info("shutting down")
	hs.Wait()
	return nil
}

// buildNotifier — каналы по конфигу; без каналов отправка рекомендаций отключена.
func buildNotifier(log *zap.Logger) api.Notifier {
	var channels []notify.Channel
	if cfg.SMTP.Enabled() {
		m, err := notify.NewMailer(cfg.SMTP)
		if err != nil {
			log.Warn("smtp disabled", zap.Error(err))
		} else {
			channels = append(channels, m)
		}
	}
	if cfg.TelegramToken != "" {
		t, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			log.Warn("telegram disabled", zap.Error(err))
		} else {
			channels = append(channels, t)
		}
	}
	if len(channels) == 0 {
		log.Warn("no notification channels configured")
		return nil
	}
	return notify.New(log, channels...)
}
