package notify

import (
	"fmt"
	"time"

	"github.com/Spok95/kindergarten/internal/models"
)

// RecommendationMessage — текст письма с рекомендацией по ребёнку.
func RecommendationMessage(child models.Child, author models.User, rec models.Recommendation, loc *time.Location) Message {
	return Message{
		Subject: fmt.Sprintf("Рекомендация по ребёнку: %s", child.FullName),
		Body: fmt.Sprintf("%s\n\n%s, %s",
			rec.Body, author.FullName, rec.CreatedAt.In(loc).Format("02.01.2006")),
	}
}

func RecipientOf(u models.User) Recipient {
	return Recipient{Name: u.FullName, Email: u.Email, TelegramChatID: u.TelegramChatID}
}
