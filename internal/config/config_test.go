package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()

	assert.Equal(t, "invex-billing", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Equal(t, "memory", cfg.Notify.Driver)
	assert.Equal(t, time.Minute, cfg.Billing.CatalogCacheTTL)
	assert.Equal(t, 5, cfg.Billing.InvoiceNumberAttempts)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PRINTER_AUTO_PRINT", "true")
	t.Setenv("RATE_LIMIT_REQUESTS", "30")
	t.Setenv("RATE_LIMIT_DURATION", "60")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Printer.AutoPrint)
	assert.InDelta(t, 0.5, cfg.RateLimit.RequestsPerSecond(), 1e-9)
}
