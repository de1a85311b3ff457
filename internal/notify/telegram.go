package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/kindergarten/internal/observability"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram — дублирование рекомендаций в чат родителя.
type Telegram struct {
	bot botAPI
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Accepts(r Recipient) bool { return r.TelegramChatID != nil && *r.TelegramChatID != 0 }

func (t *Telegram) Deliver(ctx context.Context, r Recipient, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := m.Body
	if m.Subject != "" {
		text = m.Subject + "\n\n" + m.Body
	}
	_, err := t.bot.Send(tgbotapi.NewMessage(*r.TelegramChatID, text))
	if isSystemErr(err) {
		observability.CaptureErr(err)
	}
	return err
}

// Системными считаем 5xx, 429 и таймауты. Ошибки валидации Telegram в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	for _, marker := range []string{"429", "502", "503", "timeout"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
