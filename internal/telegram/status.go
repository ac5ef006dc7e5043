package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

// StatusMessage is the single chat message edited in place while a relay
// run progresses. It is created once per incoming link and never recreated
// mid-run; each edit replaces the previous text.
type StatusMessage struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	msgID  int
}

func NewStatusMessage(bot *tgbotapi.BotAPI, chatID int64, text string) (*StatusMessage, error) {
	msg, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return nil, fmt.Errorf("send status message failed: %w", err)
	}
	return &StatusMessage{bot: bot, chatID: chatID, msgID: msg.MessageID}, nil
}

// Update implements relay.StatusSink.
func (m *StatusMessage) Update(text string) {
	m.edit(text, "")
}

// Final renders the closing summary with Markdown formatting.
func (m *StatusMessage) Final(text string) {
	m.edit(text, tgbotapi.ModeMarkdown)
}

func (m *StatusMessage) edit(text, parseMode string) {
	edit := tgbotapi.NewEditMessageText(m.chatID, m.msgID, text)
	edit.ParseMode = parseMode
	if _, err := m.bot.Request(edit); err != nil {
		if !strings.Contains(err.Error(), "message is not modified") {
			logger.Warn("Failed to edit status message", "error", err)
		}
	}
}
