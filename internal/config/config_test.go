package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/advancepay?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Rollover.CompletionTimeout)
	assert.Equal(t, 5*time.Second, cfg.Inquiry.PollInterval)
	assert.Equal(t, 10, cfg.Inquiry.PollAttempts)
	assert.False(t, cfg.Wallet.Enabled)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{URL: "postgres://localhost/advancepay"},
		Rollover: RolloverConfig{CompletionTimeout: 30 * time.Second},
		Inquiry:  InquiryConfig{PollInterval: 5 * time.Second, PollAttempts: 10},
	}
	require.NoError(t, cfg.Validate())

	missingDB := *cfg
	missingDB.Database.URL = ""
	assert.Error(t, missingDB.Validate())

	noTimeout := *cfg
	noTimeout.Rollover.CompletionTimeout = 0
	assert.Error(t, noTimeout.Validate())

	noAttempts := *cfg
	noAttempts.Inquiry.PollAttempts = 0
	assert.Error(t, noAttempts.Validate())

	walletWithoutCerts := *cfg
	walletWithoutCerts.Wallet.Enabled = true
	walletWithoutCerts.Wallet.EndpointAddress = "https://vendor.example"
	assert.Error(t, walletWithoutCerts.Validate())
}
