package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:abcdef")
	t.Setenv("TARGET_GROUP_ID", "-1001234567890")
	t.Setenv("OWNER_ID", "")
	t.Setenv("TRANSFER_CONCURRENCY", "")
	t.Setenv("MEGA_API_URL", "")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123456:abcdef", cfg.BotToken)
	assert.Equal(t, int64(-1001234567890), cfg.TargetGroupID)
	assert.Equal(t, int64(0), cfg.OwnerID)
	assert.Equal(t, 1, cfg.TransferConcurrency)
	assert.Equal(t, DefaultMegaAPIURL, cfg.MegaAPIURL)
}

func TestLoadMissingToken(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoadPlaceholderToken(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_TOKEN", "YOUR_BOT_TOKEN_HERE")

	_, err := Load()
	assert.ErrorContains(t, err, "BOT_TOKEN")
}

func TestLoadPlaceholderGroup(t *testing.T) {
	setRequired(t)
	t.Setenv("TARGET_GROUP_ID", "YOUR_GROUP_ID_HERE")

	_, err := Load()
	assert.ErrorContains(t, err, "TARGET_GROUP_ID")
}

func TestLoadBadGroupID(t *testing.T) {
	setRequired(t)
	t.Setenv("TARGET_GROUP_ID", "not-a-number")

	_, err := Load()
	assert.ErrorContains(t, err, "TARGET_GROUP_ID")
}

func TestLoadOptionals(t *testing.T) {
	setRequired(t)
	t.Setenv("OWNER_ID", "42")
	t.Setenv("TRANSFER_CONCURRENCY", "4")
	t.Setenv("MEGA_API_URL", "http://localhost:9000/cs")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.OwnerID)
	assert.Equal(t, 4, cfg.TransferConcurrency)
	assert.Equal(t, "http://localhost:9000/cs", cfg.MegaAPIURL)
}

func TestLoadBadConcurrency(t *testing.T) {
	setRequired(t)
	t.Setenv("TRANSFER_CONCURRENCY", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "TRANSFER_CONCURRENCY")
}
