package telegram

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"camGateway/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendTimeout bounds every Bot API call. Notifications are best-effort and
// must not hold an upload request open longer than this.
const sendTimeout = 10 * time.Second

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func New(tgCfg *config.Telegram, log *slog.Logger) (*Notifier, error) {
	const op = "notifier.telegram.New"

	client := &http.Client{Timeout: sendTimeout}

	bot, err := tgbotapi.NewBotAPIWithClient(tgCfg.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Notifier{
		bot:    bot,
		chatID: tgCfg.ChatID,
		log:    log,
	}, nil
}

// Notify sends the stored image to the configured chat as a photo by URL.
// Telegram fetches the image itself, so the URL must be publicly reachable.
func (n *Notifier) Notify(imageURL string, caption string) error {
	const op = "notifier.telegram.Notify"

	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileURL(imageURL))
	photo.Caption = caption

	if _, err := n.bot.Send(photo); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n.log.Info("notification sent", slog.Int64("chat_id", n.chatID))

	return nil
}
