package telegramimpl

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/community-feed-bot/internal/notify"
	"github.com/orgball2608/community-feed-bot/internal/telegram"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot      *tgbotapi.BotAPI
	Logger     logger.Logger
	Config     *config.Config
	httpClient *http.Client
}

func New(opts Opts) (*TelegramImpl, error) {
	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "Error", err)
		return nil, err
	}

	return &TelegramImpl{
		TgBot:      tgBot,
		Logger:     opts.Logger.WithComponent("Telegram"),
		Config:     opts.Config,
		httpClient: &http.Client{},
	}, nil
}

var (
	_ telegram.Client = (*TelegramImpl)(nil)
	_ notify.Notifier = (*TelegramImpl)(nil)
)
