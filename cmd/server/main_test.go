package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/config"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServiceName:          "sweet_shop_test",
		ServerPort:           0,
		DatabaseURL:          "sqlite://" + filepath.Join(t.TempDir(), "shop.db"),
		JWTAccessSecret:      "access",
		JWTRefreshSecret:     "refresh",
		AccessTokenTTL:       time.Minute,
		RefreshTokenTTL:      time.Hour,
		ESIndex:              "products",
		MailFrom:             "no-reply@sweetshop.local",
		FrontendURL:          "http://localhost:3000",
		CORSOriginsRaw:       "http://localhost:3000",
		DefaultExchangeRate:  "35.00",
		PasswordResetTTL:     time.Hour,
		EmailVerificationTTL: 24 * time.Hour,
	}
}

func TestRun_StartsAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, localConfig(t), zerolog.Nop()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_BadDatabase(t *testing.T) {
	cfg := localConfig(t)
	cfg.DatabaseURL = ""

	err := run(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
