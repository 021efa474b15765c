package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramTimeout = 10 * time.Second

// TelegramPublisher sends the message to a Telegram chat or channel. The topic is
// a numeric chat ID or an @channel username; an empty topic uses the default chat.
type TelegramPublisher struct {
	bot         *tgbotapi.BotAPI
	defaultChat string
}

// NewTelegramPublisher authenticates the bot token against the Bot API
func NewTelegramPublisher(botToken, defaultChat string) (*TelegramPublisher, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	return newTelegramPublisher(botToken, tgbotapi.APIEndpoint, &http.Client{Timeout: telegramTimeout}, defaultChat)
}

func newTelegramPublisher(botToken, endpoint string, client *http.Client, defaultChat string) (*TelegramPublisher, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramPublisher{bot: bot, defaultChat: defaultChat}, nil
}

// Publish sends message to the chat named by topic
func (p *TelegramPublisher) Publish(ctx context.Context, topic, message string) error {
	if message == "" {
		return fmt.Errorf("message text is required")
	}

	chat := strings.TrimSpace(topic)
	if chat == "" {
		chat = p.defaultChat
	}
	if chat == "" {
		return fmt.Errorf("chat ID is required")
	}

	var msg tgbotapi.MessageConfig
	if strings.HasPrefix(chat, "@") {
		msg = tgbotapi.NewMessageToChannel(chat, message)
	} else {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat ID %q: %w", chat, err)
		}
		msg = tgbotapi.NewMessage(chatID, message)
	}
	msg.DisableWebPagePreview = true

	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
