package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	placeholderToken = "YOUR_BOT_TOKEN_HERE"
	placeholderGroup = "YOUR_GROUP_ID_HERE"

	// DefaultMegaAPIURL is MEGA's production API endpoint.
	DefaultMegaAPIURL = "https://g.api.mega.co.nz/cs"
)

// Config carries everything the bot needs at startup. There are no ambient
// globals; the loaded value is passed into the constructors that need it.
type Config struct {
	BotToken      string
	TargetGroupID int64

	// OwnerID gates the /stats command. Zero means no owner configured.
	OwnerID int64

	// TransferConcurrency bounds parallel transfers within one run.
	// 1 keeps the sequential one-file-at-a-time behavior.
	TransferConcurrency int

	MegaAPIURL string
}

// Load reads configuration from the process environment. A missing or
// placeholder BOT_TOKEN / TARGET_GROUP_ID is a fatal startup error.
func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" || token == placeholderToken {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	rawGroup := os.Getenv("TARGET_GROUP_ID")
	if rawGroup == "" || rawGroup == placeholderGroup {
		return nil, fmt.Errorf("TARGET_GROUP_ID is not set")
	}
	groupID, err := strconv.ParseInt(rawGroup, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("TARGET_GROUP_ID must be a numeric chat id: %w", err)
	}

	cfg := &Config{
		BotToken:            token,
		TargetGroupID:       groupID,
		TransferConcurrency: 1,
		MegaAPIURL:          DefaultMegaAPIURL,
	}

	if raw := os.Getenv("OWNER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("OWNER_ID must be numeric: %w", err)
		}
		cfg.OwnerID = id
	}

	if raw := os.Getenv("TRANSFER_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("TRANSFER_CONCURRENCY must be a positive integer")
		}
		cfg.TransferConcurrency = n
	}

	if u := os.Getenv("MEGA_API_URL"); u != "" {
		cfg.MegaAPIURL = u
	}

	return cfg, nil
}
