// Package notify — доставка рекомендаций родителям: почта и Telegram.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/metrics"
)

// Recipient — адресат; пустой Email или nil TelegramChatID отключают канал.
type Recipient struct {
	Name           string
	Email          string
	TelegramChatID *int64
}

type Message struct {
	Subject string
	Body    string
}

// Channel — один способ доставки.
type Channel interface {
	Name() string
	// Accepts — может ли канал доставить этому адресату.
	Accepts(r Recipient) bool
	Deliver(ctx context.Context, r Recipient, m Message) error
}

var ErrNoChannel = errors.New("no delivery channel for recipient")

// Notifier рассылает по всем подходящим каналам.
type Notifier struct {
	channels []Channel
	log      *zap.Logger
}

func New(log *zap.Logger, channels ...Channel) *Notifier {
	return &Notifier{channels: channels, log: log}
}

// Send успешен, если сообщение ушло хотя бы одним каналом.
func (n *Notifier) Send(ctx context.Context, r Recipient, m Message) error {
	var errs []error
	delivered := 0
	for _, ch := range n.channels {
		if !ch.Accepts(r) {
			continue
		}
		err := ch.Deliver(ctx, r, m)
		metrics.ObserveNotification(ch.Name(), err)
		if err != nil {
			n.log.Warn("notification failed", zap.String("channel", ch.Name()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		return nil
	}
	if len(errs) == 0 {
		return ErrNoChannel
	}
	return errors.Join(errs...)
}
