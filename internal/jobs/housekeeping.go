package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/storage"
)

// LimiterCleanup забывает IP, которые не логинились дольше idle.
func LimiterCleanup(l *auth.LoginLimiter, idle time.Duration, log *zap.Logger) Job {
	return func(context.Context) error {
		if n := l.Cleanup(idle); n > 0 {
			log.Debug("login limiter cleanup", zap.Int("removed", n))
		}
		return nil
	}
}

type photoLister interface {
	ListPhotoPaths(ctx context.Context) ([]string, error)
}

// PhotoSweep удаляет файлы фото, на которые не ссылается ни один ребёнок.
// Свежие файлы не трогаем: запись пути в БД могла ещё не завершиться.
func PhotoSweep(store photoLister, photos *storage.Photos, olderThan time.Duration, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		paths, err := store.ListPhotoPaths(ctx)
		if err != nil {
			return err
		}
		keep := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			keep[p] = struct{}{}
		}
		n, err := photos.Sweep(keep, olderThan)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("orphan photos removed", zap.Int("count", n))
		}
		return nil
	}
}
