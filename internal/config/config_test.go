package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key FromEnv reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "JWT_SECRET", "API_KEY_HASHES",
		"RATE_LIMIT_DAILY", "RATE_LIMIT_MONTHLY", "LOG_LEVEL", "LOG_FORMAT",
		"VAT_RATE", "ISR_RETENTION_RATE", "VAT_RETENTION_NUMERATOR", "VAT_RETENTION_DENOMINATOR",
		"ISAI_RATE", "MONEY_PLACES", "DIVISION_PRECISION",
		"REQUIRE_BUYER_CURP", "STRICT_TAXPAYER_ID",
		"NOTARY_NUMBER", "NOTARY_STATE", "NOTARY_ADSCRIPTION",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.APIKeys)
	assert.Equal(t, 1000, cfg.DefaultDailyLimit)
	assert.Equal(t, 4, cfg.NotaryNumber)
	assert.Equal(t, "06", cfg.NotaryState)
	assert.Equal(t, "MANZANILLO COLIMA", cfg.NotaryAdscription)
	assert.False(t, cfg.RequireBuyerCURP)
	assert.False(t, cfg.StrictTaxpayerID)
	assert.Equal(t, "0.16", cfg.Fiscal.VATRate.String())
	assert.Equal(t, int32(16), cfg.Fiscal.DivisionPrecision)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ISAI_RATE", "0.02")
	t.Setenv("REQUIRE_BUYER_CURP", "true")
	t.Setenv("STRICT_TAXPAYER_ID", "1")
	t.Setenv("NOTARY_NUMBER", "12")
	t.Setenv("API_KEY_HASHES", "escritorio:$2a$10$abcdefghijklmnopqrstuv, $2a$10$zyxwvutsrqponmlkjihgfe")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.02", cfg.Fiscal.TransferTaxRate.String())
	assert.True(t, cfg.RequireBuyerCURP)
	assert.True(t, cfg.StrictTaxpayerID)
	assert.Equal(t, 12, cfg.NotaryNumber)

	require.Len(t, cfg.APIKeys, 2)
	assert.Equal(t, "escritorio", cfg.APIKeys[0].ClientID)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.APIKeys[0].KeyHash)
	assert.Equal(t, "key-2", cfg.APIKeys[1].ClientID)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"VAT_RATE", "dieciseis"},
		{"VAT_RATE", "-0.16"},
		{"VAT_RETENTION_DENOMINATOR", "0"},
		{"RATE_LIMIT_DAILY", "many"},
		{"REQUIRE_BUYER_CURP", "maybe"},
		{"LOG_FORMAT", "xml"},
		{"NOTARY_NUMBER", "0"},
		{"DIVISION_PRECISION", "1"},
		{"API_KEY_HASHES", "plain-text-key"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "field", "rfc_receptor")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "rfc_receptor", entry["field"])
}
