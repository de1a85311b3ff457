package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/models"
)

type fakeSMTP struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSMTP) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	f.sent = append(f.sent, msgs...)
	return f.err
}

type fakeBot struct {
	chats []int64
	err   error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.chats = append(f.chats, m.ChatID)
	}
	return tgbotapi.Message{}, f.err
}

func TestMailer_FixedSender(t *testing.T) {
	smtp := &fakeSMTP{}
	m := &Mailer{client: smtp, from: "Детский сад <noreply@kindergarten.local>"}

	err := m.Deliver(context.Background(), Recipient{Name: "Мария", Email: "maria@example.com"}, Message{Subject: "Тема", Body: "Текст"})
	if err != nil {
		t.Fatal(err)
	}
	if len(smtp.sent) != 1 {
		t.Fatalf("ожидали одно письмо, получили %d", len(smtp.sent))
	}
	var buf bytes.Buffer
	if _, err := smtp.sent[0].WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "noreply@kindergarten.local") || !strings.Contains(buf.String(), "maria@example.com") {
		t.Fatalf("в письме нет отправителя или адресата:\n%s", buf.String())
	}
}

func TestNotifier_AnyChannelIsEnough(t *testing.T) {
	chat := int64(555)
	smtp := &fakeSMTP{err: errors.New("relay down")}
	bot := &fakeBot{}
	n := New(zap.NewNop(), &Mailer{client: smtp, from: "a@b.c"}, &Telegram{bot: bot})

	err := n.Send(context.Background(), Recipient{Email: "p@example.com", TelegramChatID: &chat}, Message{Body: "x"})
	if err != nil {
		t.Fatalf("телеграм доставил, ошибки быть не должно: %v", err)
	}
	if len(bot.chats) != 1 || bot.chats[0] != 555 {
		t.Fatalf("чаты: %v", bot.chats)
	}
}

func TestNotifier_Failures(t *testing.T) {
	smtp := &fakeSMTP{err: errors.New("relay down")}
	bot := &fakeBot{}
	n := New(zap.NewNop(), &Mailer{client: smtp, from: "a@b.c"}, &Telegram{bot: bot})

	if err := n.Send(context.Background(), Recipient{Email: "p@example.com"}, Message{Body: "x"}); err == nil {
		t.Fatal("единственный канал упал, ожидали ошибку")
	}
	if len(bot.chats) != 0 {
		t.Fatal("без chat id телеграм не должен вызываться")
	}
	if err := n.Send(context.Background(), Recipient{}, Message{Body: "x"}); !errors.Is(err, ErrNoChannel) {
		t.Fatalf("ожидали ErrNoChannel, получили %v", err)
	}
}

func TestRecommendationMessage(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	msg := RecommendationMessage(
		models.Child{FullName: "Иванов Петя"},
		models.User{FullName: "Психолог Анна"},
		models.Recommendation{Body: "Больше читать вслух", CreatedAt: time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)},
		loc,
	)
	if msg.Subject != "Рекомендация по ребёнку: Иванов Петя" {
		t.Fatalf("тема: %q", msg.Subject)
	}
	// 22:00 UTC это уже 5 марта по Москве
	if !strings.HasSuffix(msg.Body, "Психолог Анна, 05.03.2024") {
		t.Fatalf("подпись: %q", msg.Body)
	}
}
