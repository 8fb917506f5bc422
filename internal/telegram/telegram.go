package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)

	// SendMessageToUser delivers text to the configured owner; failures are only logged
	SendMessageToUser(text string)

	// DownloadFile fetches the content of a file the user sent to the bot
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
