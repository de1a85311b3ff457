package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/kindergarten/internal/apperr"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSave_NameAndType(t *testing.T) {
	p, err := NewPhotos(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	name, err := p.Save(12, bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatal(err)
	}
	if name != "child_12_1700000000000000000.png" {
		t.Fatalf("неожиданное имя %q", name)
	}
	if _, err := os.Stat(filepath.Join(p.Dir(), name)); err != nil {
		t.Fatalf("файл не записан: %v", err)
	}
}

func TestSave_Rejects(t *testing.T) {
	p, _ := NewPhotos(t.TempDir())

	if _, err := p.Save(1, strings.NewReader("hello, not an image")); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("текст должен отклоняться, получили %v", err)
	}
	big := append(pngBytes(t), make([]byte, MaxPhotoSize)...)
	if _, err := p.Save(1, bytes.NewReader(big)); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("слишком большой файл должен отклоняться, получили %v", err)
	}
	if _, err := p.Save(1, bytes.NewReader(nil)); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("пустой файл должен отклоняться, получили %v", err)
	}
}

func TestSweep_KeepsReferenced(t *testing.T) {
	dir := t.TempDir()
	p, _ := NewPhotos(dir)
	for _, n := range []string{"child_1_1.png", "child_2_2.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	n, err := p.Sweep(map[string]struct{}{"child_1_1.png": {}}, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ожидали удаление одного файла, удалено %d", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "child_2_2.png")); !os.IsNotExist(err) {
		t.Fatal("осиротевшее фото должно удалиться")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatal("чужие файлы трогать нельзя")
	}
}

func TestHandler_NoCache(t *testing.T) {
	dir := t.TempDir()
	p, _ := NewPhotos(dir)
	_ = os.WriteFile(filepath.Join(dir, "child_1_1.png"), pngBytes(t), 0o644)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/child_1_1.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache, no-store, must-revalidate" {
		t.Fatalf("Cache-Control: %q", cc)
	}
}
