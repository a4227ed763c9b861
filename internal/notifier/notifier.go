package notifier

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/karavan-market/karavan/internal/config"
)

// Client sends messages through the storefront bot. Implementations must be
// safe for concurrent use. A missing bot token yields a noop client, so
// callers never need a nil check.
type Client interface {
	SendMessage(ctx context.Context, chatID string, text string) error
	SendPhoto(ctx context.Context, chatID string, photoRef string, caption string) error
	Enabled() bool
}

// Module provides the notification client to the Fx graph.
var Module = fx.Provide(NewClient)

// NewClient builds a Telegram-backed client, or a noop one when no bot
// token is configured.
func NewClient(cfg config.Config, logger *zap.Logger) (Client, error) {
	if cfg.Telegram.BotToken == "" {
		logger.Info("telegram bot token not set; notifications disabled")
		return noopClient{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	logger.Info("telegram bot initialised", zap.String("username", bot.Self.UserName))
	return &telegramClient{bot: bot}, nil
}

type noopClient struct{}

func (noopClient) SendMessage(context.Context, string, string) error       { return nil }
func (noopClient) SendPhoto(context.Context, string, string, string) error { return nil }
func (noopClient) Enabled() bool                                           { return false }

type telegramClient struct {
	bot *tgbotapi.BotAPI
}

func (c *telegramClient) SendMessage(ctx context.Context, chatID string, text string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	_, err = c.bot.Send(tgbotapi.NewMessage(id, text))
	return err
}

func (c *telegramClient) SendPhoto(ctx context.Context, chatID string, photoRef string, caption string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(id, tgbotapi.FileURL(photoRef))
	photo.Caption = caption
	_, err = c.bot.Send(photo)
	return err
}

func (c *telegramClient) Enabled() bool { return true }

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}
	return id, nil
}
