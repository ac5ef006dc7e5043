package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/config"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/mega"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/middleware"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/relay"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/telegram"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

// Bot wires the Telegram long-polling loop to the MEGA relay pipeline.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	mega     *mega.Client
	pipeline *relay.Pipeline
}

func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	sender := telegram.NewSender(api, cfg.TargetGroupID)
	pipeline, err := relay.NewPipeline(sender, cfg.TransferConcurrency)
	if err != nil {
		return nil, err
	}

	logger.Info("Bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:      api,
		cfg:      cfg,
		mega:     mega.NewClient(cfg.MegaAPIURL),
		pipeline: pipeline,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot started, polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			// Stale updates from before a restart are ignored.
			if time.Since(update.Message.Time()) > 5*time.Minute {
				continue
			}
			msg := update.Message
			handler := middleware.Chain(
				func() { b.dispatch(ctx, msg) },
				middleware.Recover,
				middleware.Logger("update"),
			)
			go handler()
		}
	}
}

func (b *Bot) Cleanup() {
	b.pipeline.Cleanup()
}
