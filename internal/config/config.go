package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	Location    *time.Location
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	UploadDir   string

	DBMaxOpenConns int
	DBMaxIdleConns int

	// Тарифы для расчёта месячной оплаты
	DailyRate          float64
	PaidGroupSurcharge float64

	SMTP SMTPConfig

	TelegramToken string

	// Лимит попыток логина: запросов в секунду и burst на один IP
	LoginRPS   float64
	LoginBurst int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled — SMTP считается настроенным, если задан хост.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// IsProd — в prod не отдаём клиенту детали внутренних ошибок.
func (c *Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }

func Load() (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	tz := getenv("TZ", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	dailyRate, err := parseFloat("FINANCE_DAILY_RATE", 194)
	if err != nil {
		return nil, err
	}
	surcharge, err := parseFloat("FINANCE_PAID_SURCHARGE", 1500)
	if err != nil {
		return nil, err
	}
	smtpPort, err := parseInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	maxOpen, err := parseInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return nil, err
	}
	maxIdle, err := parseInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	loginRPS, err := parseFloat("LOGIN_RPS", 1)
	if err != nil {
		return nil, err
	}
	loginBurst, err := parseInt("LOGIN_BURST", 5)
	if err != nil {
		return nil, err
	}

	addr := getenv("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + getenv("PORT", "8080")
	}

	cfg := &Config{
		DatabaseURL:        mustEnv("DATABASE_URL"),
		JWTSecret:          mustEnv("JWT_SECRET"),
		JWTTTL:             ttl,
		Location:           loc,
		HTTPAddr:           addr,
		LogLevel:           getenv("LOG_LEVEL", "info"),
		Env:                getenv("ENV", "dev"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		UploadDir:          getenv("UPLOAD_DIR", "./uploads"),
		DBMaxOpenConns:     maxOpen,
		DBMaxIdleConns:     maxIdle,
		DailyRate:          dailyRate,
		PaidGroupSurcharge: surcharge,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "Детский сад <noreply@kindergarten.local>"),
		},
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		LoginRPS:      loginRPS,
		LoginBurst:    loginBurst,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseInt(k string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(k))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseFloat(k string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(k))
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}
