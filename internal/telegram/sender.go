package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/media"
)

// Sender delivers local files to the fixed destination group.
type Sender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewSender(bot *tgbotapi.BotAPI, chatID int64) *Sender {
	return &Sender{bot: bot, chatID: chatID}
}

// SendMedia uploads one file as photo, video, or document according to
// kind, captioned with the kind's icon and the original filename.
func (s *Sender) SendMedia(path, filename string, kind media.Kind) error {
	caption := fmt.Sprintf("%s %s", kind.Icon(), filename)

	var msg tgbotapi.Chattable
	switch kind {
	case media.KindPhoto:
		photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FilePath(path))
		photo.Caption = caption
		msg = photo
	case media.KindVideo:
		video := tgbotapi.NewVideo(s.chatID, tgbotapi.FilePath(path))
		video.Caption = caption
		video.SupportsStreaming = true
		msg = video
	default:
		doc := tgbotapi.NewDocument(s.chatID, tgbotapi.FilePath(path))
		doc.Caption = caption
		msg = doc
	}

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("send %s failed: %w", filename, err)
	}
	return nil
}
