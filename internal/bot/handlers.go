package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/media"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/mega"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/relay"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/stats"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/telegram"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/format"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

const welcomeText = `🤖 *MEGA to Telegram Bot*

Send me a MEGA folder link and I'll download all images and videos, then upload them to the target group.

*Usage:*
1. Send me a MEGA folder link (e.g., https://mega.nz/folder/...)
2. I'll process the folder and upload media files
3. Files will be uploaded to the configured group

*Supported formats:*
- Images: JPG, PNG, GIF, WEBP, BMP
- Videos: MP4, AVI, MOV, MKV, WEBM

Ready to receive your MEGA link! 📁`

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.handleStart(msg)
		case "stats":
			b.handleStats(msg)
		}
		return
	}
	b.handleLink(ctx, msg)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		// Markdown rejection falls back to plain text.
		plain := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
		if _, err := b.api.Send(plain); err != nil {
			logger.Warn("Failed to send welcome message", "error", err)
		}
	}
}

func (b *Bot) handleStats(msg *tgbotapi.Message) {
	if b.cfg.OwnerID == 0 || msg.From == nil || msg.From.ID != b.cfg.OwnerID {
		return
	}

	info, err := stats.Collect()
	if err != nil {
		logger.Error("Failed to collect system stats", "error", err)
		b.reply(msg.Chat.ID, "❌ Failed to collect system stats.")
		return
	}

	text := fmt.Sprintf(
		"📊 *System Stats*\n\n"+
			"🖥 Host: %s (%s)\n"+
			"⏱ System uptime: %s\n"+
			"🧠 CPU: %d cores, %.1f%% used\n"+
			"💾 Memory: %s / %s (%.1f%%)\n\n"+
			"🤖 *Bot Process*\n"+
			"• RSS: %s\n"+
			"• Uptime: %s\n"+
			"• Goroutines: %d\n"+
			"• %s",
		info.Hostname, info.OS,
		format.Duration(time.Duration(info.SystemUptime)*time.Second),
		info.CPUCores, info.CPUUsage,
		format.FileSize(int64(info.MemUsed)), format.FileSize(int64(info.MemTotal)), info.MemPercent,
		format.FileSize(int64(info.ProcessRSS)),
		format.Duration(info.ProcessUptime),
		info.Goroutines,
		info.GoVersion,
	)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		logger.Warn("Failed to send stats message", "error", err)
	}
}

func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !mega.IsFolderLink(text) {
		b.reply(msg.Chat.ID, "❌ Please send a valid MEGA folder link.\nExample: https://mega.nz/folder/...")
		return
	}

	status, err := telegram.NewStatusMessage(b.api, msg.Chat.ID, "🔄 Processing MEGA folder...")
	if err != nil {
		logger.Error("Failed to create status message", "error", err)
		return
	}

	logger.Info("Processing folder link", "chat", msg.Chat.ID)
	start := time.Now()

	if err := b.relayFolder(ctx, text, status); err != nil {
		status.Update(relayErrorText(err))
		logger.Error("Folder relay failed", "error", err)
		return
	}

	logger.Info("Folder relay finished", "duration", time.Since(start))
}

// relayFolder runs the full link-to-group flow behind one status message.
func (b *Bot) relayFolder(ctx context.Context, raw string, status *telegram.StatusMessage) error {
	link, err := mega.ParseFolderLink(raw)
	if err != nil {
		return err
	}

	status.Update("📥 Connecting to MEGA...")
	start := time.Now()

	sess, err := b.mega.LoginAnonymous(ctx)
	if err != nil {
		return err
	}

	records, err := mega.ResolveFolder(ctx, sess, link, status.Update)
	if err != nil {
		return err
	}

	files := media.Filter(records)
	if len(files) == 0 {
		status.Update("❌ No supported media files found in the folder.")
		return nil
	}

	status.Update(fmt.Sprintf("📁 Found %d media files. Starting download...", len(files)))

	summary := b.pipeline.Run(ctx, sess, files, status)
	status.Final(summarize(summary, time.Since(start)))
	return nil
}

func relayErrorText(err error) string {
	switch {
	case errors.Is(err, mega.ErrInvalidLinkFormat):
		return "❌ Invalid MEGA folder URL format."
	case errors.Is(err, mega.ErrFolderUnavailable):
		return "❌ No files found in the folder or folder is private."
	default:
		return fmt.Sprintf("❌ Error processing folder: %v\nPlease check the link and try again.", err)
	}
}

func summarize(s relay.Summary, elapsed time.Duration) string {
	return fmt.Sprintf(
		"✅ *Upload Complete!*\n\n"+
			"📊 *Results:*\n"+
			"• Successfully uploaded: %d\n"+
			"• Failed: %d\n"+
			"• Total processed: %d\n"+
			"• Time: %s",
		s.Uploaded, s.Failed, s.Total, format.Duration(elapsed),
	)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Warn("Failed to send reply", "error", err)
	}
}
