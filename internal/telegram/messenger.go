package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// chatShareRequestID tags chat_shared replies so stale shares from an older
// keyboard are recognizable.
const chatShareRequestID = 1

// Messenger adapts the bot API to the models.Messenger boundary used by the
// notification dispatcher.
type Messenger struct {
	bot    *bot.Bot
	logger *logger.Logger
}

func NewMessenger(b *bot.Bot, logger *logger.Logger) *Messenger {
	return &Messenger{bot: b, logger: logger}
}

func (m *Messenger) Send(ctx context.Context, chatID int64, msg models.OutboundMessage) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg.Text,
	}
	if msg.Format == models.FormatMarkdown {
		params.ParseMode = tgModels.ParseModeMarkdown
	}
	if len(msg.Actions) > 0 {
		rows := make([][]tgModels.InlineKeyboardButton, 0, len(msg.Actions))
		for _, action := range msg.Actions {
			rows = append(rows, []tgModels.InlineKeyboardButton{{
				Text:         action.Label,
				URL:          action.URL,
				CallbackData: action.CallbackToken,
			}})
		}
		params.ReplyMarkup = &tgModels.InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %s", chatID, err)
	}
	return nil
}

// sendReply renders one state machine reply into a chat.
func (m *Messenger) sendReply(ctx context.Context, chatID int64, reply models.Reply) {
	if reply.Text == "" {
		return
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}
	if reply.Markdown {
		params.ParseMode = tgModels.ParseModeMarkdown
	}

	switch {
	case reply.RequestChat:
		params.ReplyMarkup = &tgModels.ReplyKeyboardMarkup{
			Keyboard: [][]tgModels.KeyboardButton{{{
				Text: "Select Chat",
				RequestChat: &tgModels.KeyboardButtonRequestChat{
					RequestID:   chatShareRequestID,
					BotIsMember: true,
				},
			}}},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case len(reply.Buttons) > 0:
		rows := make([][]tgModels.InlineKeyboardButton, 0, len(reply.Buttons))
		for _, row := range reply.Buttons {
			line := make([]tgModels.InlineKeyboardButton, 0, len(row))
			for _, button := range row {
				line = append(line, tgModels.InlineKeyboardButton{
					Text:         button.Label,
					URL:          button.URL,
					CallbackData: button.Callback,
				})
			}
			rows = append(rows, line)
		}
		params.ReplyMarkup = &tgModels.InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	if _, err := m.bot.SendMessage(ctx, params); err != nil {
		m.logger.Error("Failed to send reply ", "chat ", chatID, " error ", err)
	}
}
