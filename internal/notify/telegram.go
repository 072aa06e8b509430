package notify

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/observability"
)

// Sender доставляет текст и файлы в чат.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error
}

// Telegram — отправка через Bot API.
type Telegram struct {
	Bot *tgbotapi.BotAPI
}

// Считаем системными: 5xx, 429, timeout. 400-ки и типичные телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	switch {
	case strings.Contains(s, "Bad Request"),
		strings.Contains(s, "message is not modified"),
		strings.Contains(s, "chat not found"),
		strings.Contains(s, "bot was blocked by the user"):
		return false
	}
	return strings.Contains(s, "429") || strings.Contains(s, "Too Many Requests") ||
		strings.Contains(s, "500") || strings.Contains(s, "502") || strings.Contains(s, "503") ||
		strings.Contains(s, "timeout")
}

func (t Telegram) Send(ctx context.Context, chatID int64, text string) error {
	_, err := t.Deliver(ctx, tgbotapi.NewMessage(chatID, text))
	return err
}

func (t Telegram) SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := t.Deliver(ctx, doc)
	return err
}

// Deliver отправляет произвольный Chattable (сообщение с клавиатурой и т.п.).
func (t Telegram) Deliver(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := ctx.Err(); err != nil {
		return tgbotapi.Message{}, err
	}
	m, err := t.Bot.Send(c)
	if isSystemErr(err) {
		observability.CaptureCtx(ctx, err)
	}
	return m, err
}

// LogSender пишет уведомления в лог, когда бот не настроен.
type LogSender struct {
	Log *zap.Logger
}

func (l LogSender) Send(_ context.Context, chatID int64, text string) error {
	l.Log.Info("notice", zap.Int64("chat_id", chatID), zap.String("text", text))
	return nil
}

func (l LogSender) SendDocument(_ context.Context, chatID int64, name string, data []byte, caption string) error {
	l.Log.Info("document", zap.Int64("chat_id", chatID), zap.String("name", name),
		zap.Int("bytes", len(data)), zap.String("caption", caption))
	return nil
}
