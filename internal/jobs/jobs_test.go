package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/metrics"
	"github.com/Spok95/kindergarten/internal/storage"
)

func TestRun_PanicCountsAsError(t *testing.T) {
	r := New(context.Background(), zap.NewNop())
	before := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("boom"))

	r.run("boom", func(context.Context) error { panic("oops") })

	if got := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("boom")); got != before+1 {
		t.Fatalf("ожидали +1 ошибку джобы, получили %v -> %v", before, got)
	}
	if got := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("boom")); got < 1 {
		t.Fatalf("прогон не засчитан: %v", got)
	}
}

func TestRun_OK(t *testing.T) {
	r := New(context.Background(), nil)
	before := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("fine"))
	r.run("fine", func(context.Context) error { return nil })
	if got := testutil.ToFloat64(metrics.JobErrors.WithLabelValues("fine")); got != before {
		t.Fatalf("ошибок быть не должно: %v", got)
	}
}

type fakeLister struct {
	paths []string
	err   error
}

func (f fakeLister) ListPhotoPaths(context.Context) ([]string, error) { return f.paths, f.err }

func TestPhotoSweep_KeepsReferenced(t *testing.T) {
	dir := t.TempDir()
	photos, err := storage.NewPhotos(dir)
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	for _, name := range []string{"child_1_1.jpg", "child_2_2.png"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatal(err)
		}
	}

	job := PhotoSweep(fakeLister{paths: []string{"child_1_1.jpg"}}, photos, time.Hour, zap.NewNop())
	if err := job(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "child_1_1.jpg")); err != nil {
		t.Fatalf("файл с ссылкой удалён: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "child_2_2.png")); !os.IsNotExist(err) {
		t.Fatalf("сирота не удалён: %v", err)
	}
}

func TestPhotoSweep_StoreError(t *testing.T) {
	photos, err := storage.NewPhotos(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	want := errors.New("db down")
	job := PhotoSweep(fakeLister{err: want}, photos, time.Hour, zap.NewNop())
	if err := job(context.Background()); !errors.Is(err, want) {
		t.Fatalf("ожидали ошибку хранилища, получили %v", err)
	}
}
