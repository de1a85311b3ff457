package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://kg:kg@localhost:5432/kg?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("ожидали :9090, получили %q", cfg.HTTPAddr)
	}
	if cfg.DailyRate != 194 {
		t.Fatalf("ожидали ставку 194, получили %v", cfg.DailyRate)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("ожидали TTL 24h, получили %v", cfg.JWTTTL)
	}
	if cfg.SMTP.Enabled() {
		t.Fatal("SMTP не должен быть включён без SMTP_HOST")
	}
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("JWT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Fatal("ожидали panic при пустом JWT_SECRET")
		}
	}()
	_, _ = Load()
}

func TestLoad_BadNumbers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("FINANCE_DAILY_RATE", "сто")

	if _, err := Load(); err == nil {
		t.Fatal("ожидали ошибку разбора FINANCE_DAILY_RATE")
	}
}

func TestLoad_CommaDecimal(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("FINANCE_DAILY_RATE", "194,50")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DailyRate != 194.5 {
		t.Fatalf("ожидали 194.5, получили %v", cfg.DailyRate)
	}
}
