package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

// TelegramNotifier posts finalized evaluation reports to a reviewer chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("new bot api: %w", err)
	}

	logger.Info("telegram notifier ready", zap.String("account", bot.Self.UserName))

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

// NotifyResult sends the rendered report for a finalized review.
func (n *TelegramNotifier) NotifyResult(review *entities.Review, report string) error {
	msg := tgbotapi.NewMessage(n.chatID, report)

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send result notification: %w", err)
	}

	n.logger.Debug("result notification sent",
		zap.Int64("review_id", review.ID),
		zap.String("status", string(review.Status)),
	)

	return nil
}
