// Package storage — фото детей в локальном каталоге загрузок.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Spok95/kindergarten/internal/apperr"
)

// MaxPhotoSize — предел размера одного фото.
const MaxPhotoSize = 5 << 20

// допустимые типы и расширение, под которым храним файл
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Photos хранит файлы в плоском каталоге dir.
type Photos struct {
	dir string
	now func() time.Time
}

func NewPhotos(dir string) (*Photos, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Photos{dir: dir, now: time.Now}, nil
}

func (p *Photos) Dir() string { return p.dir }

// Save проверяет тип по содержимому и пишет child_<id>_<unix-nanos><ext>.
// Возвращает имя файла относительно каталога.
func (p *Photos) Save(childID int64, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.Validation("photo is empty")
	}
	if len(data) > MaxPhotoSize {
		return "", apperr.Validation("photo is too large", "max 5 MiB")
	}

	mt := mimetype.Detect(data)
	ext, ok := "", false
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok = allowed[m.String()]; ok {
			break
		}
	}
	if !ok {
		return "", apperr.Validation("unsupported photo type", mt.String())
	}

	name := fmt.Sprintf("child_%d_%d%s", childID, p.now().UnixNano(), ext)
	tmp, err := os.CreateTemp(p.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(p.dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// Remove удаляет файл; отсутствующий файл не ошибка.
func (p *Photos) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(p.dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Sweep удаляет фото, на которые никто не ссылается и которые старше olderThan.
func (p *Photos) Sweep(keep map[string]struct{}, olderThan time.Duration) (int, error) {
	ents, err := os.ReadDir(p.dir)
	if err != nil {
		return 0, err
	}
	cut := p.now().Add(-olderThan)
	n := 0
	for _, e := range ents {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "child_") {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cut) {
			continue
		}
		if err := os.Remove(filepath.Join(p.dir, e.Name())); err == nil {
			n++
		}
	}
	return n, nil
}

// Handler раздаёт загрузки без кеширования: фото меняется под тем же ребёнком.
func (p *Photos) Handler() http.Handler {
	fs := http.FileServer(http.Dir(p.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(filepath.Base(r.URL.Path), ".") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	})
}
