package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/notaria4/notaria4/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string

	// Database settings. Empty means the built-in catalog is used.
	DatabaseURL string

	// Redis settings. Empty disables rate limiting.
	RedisURL string

	// Security settings
	JWTSecret string
	APIKeys   []domain.APIKeyCredential

	// Rate limiting defaults
	DefaultDailyLimit   int
	DefaultMonthlyLimit int

	// Logging
	LogLevel  string
	LogFormat string

	Fiscal domain.FiscalRules

	// Open-question switches
	RequireBuyerCURP bool
	StrictTaxpayerID bool

	// Notary defaults applied when a complement omits them
	NotaryNumber      int
	NotaryState       string
	NotaryAdscription string
}

// Load reads configuration from environment variables, after loading a .env
// file when one exists in the working directory
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		NotaryState:       getEnv("NOTARY_STATE", "06"),
		NotaryAdscription: getEnv("NOTARY_ADSCRIPTION", "MANZANILLO COLIMA"),
	}

	if cfg.APIKeys, err = parseAPIKeys(os.Getenv("API_KEY_HASHES")); err != nil {
		return nil, err
	}
	if cfg.DefaultDailyLimit, err = getEnvInt("RATE_LIMIT_DAILY", 1000); err != nil {
		return nil, err
	}
	if cfg.DefaultMonthlyLimit, err = getEnvInt("RATE_LIMIT_MONTHLY", 20000); err != nil {
		return nil, err
	}
	if cfg.NotaryNumber, err = getEnvInt("NOTARY_NUMBER", 4); err != nil {
		return nil, err
	}
	if cfg.RequireBuyerCURP, err = getEnvBool("REQUIRE_BUYER_CURP", false); err != nil {
		return nil, err
	}
	if cfg.StrictTaxpayerID, err = getEnvBool("STRICT_TAXPAYER_ID", false); err != nil {
		return nil, err
	}
	if cfg.Fiscal, err = loadFiscalRules(); err != nil {
		return nil, err
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if cfg.NotaryNumber <= 0 {
		return nil, fmt.Errorf("NOTARY_NUMBER must be positive")
	}

	return cfg, nil
}

// loadFiscalRules overlays the environment on the default rates
func loadFiscalRules() (domain.FiscalRules, error) {
	rules := domain.DefaultFiscalRules()

	rates := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"VAT_RATE", &rules.VATRate},
		{"ISR_RETENTION_RATE", &rules.IncomeTaxRetentionRate},
		{"VAT_RETENTION_NUMERATOR", &rules.VATRetentionNumerator},
		{"VAT_RETENTION_DENOMINATOR", &rules.VATRetentionDenominator},
		{"ISAI_RATE", &rules.TransferTaxRate},
	}
	for _, r := range rates {
		value := os.Getenv(r.key)
		if value == "" {
			continue
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return domain.FiscalRules{}, fmt.Errorf("%s: %w", r.key, err)
		}
		if d.IsNegative() {
			return domain.FiscalRules{}, fmt.Errorf("%s must not be negative", r.key)
		}
		*r.target = d
	}
	if rules.VATRetentionDenominator.IsZero() {
		return domain.FiscalRules{}, fmt.Errorf("VAT_RETENTION_DENOMINATOR must not be zero")
	}

	places, err := getEnvInt("MONEY_PLACES", int(rules.MoneyPlaces))
	if err != nil {
		return domain.FiscalRules{}, err
	}
	precision, err := getEnvInt("DIVISION_PRECISION", int(rules.DivisionPrecision))
	if err != nil {
		return domain.FiscalRules{}, err
	}
	if places < 0 || precision < places {
		return domain.FiscalRules{}, fmt.Errorf("DIVISION_PRECISION (%d) must be at least MONEY_PLACES (%d) and both non-negative", precision, places)
	}
	rules.MoneyPlaces = int32(places)
	rules.DivisionPrecision = int32(precision)

	return rules, nil
}

// parseAPIKeys reads a comma separated list of bcrypt hashes, each optionally
// prefixed with "client_id:". Unnamed entries are called key-1, key-2, ...
func parseAPIKeys(raw string) ([]domain.APIKeyCredential, error) {
	var creds []domain.APIKeyCredential
	for i, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		cred := domain.APIKeyCredential{ClientID: fmt.Sprintf("key-%d", i+1), KeyHash: entry}
		// bcrypt hashes start with "$" and never contain ":"
		if id, hash, ok := strings.Cut(entry, ":"); ok {
			cred.ClientID = strings.TrimSpace(id)
			cred.KeyHash = strings.TrimSpace(hash)
		}
		if cred.ClientID == "" || !strings.HasPrefix(cred.KeyHash, "$2") {
			return nil, fmt.Errorf("API_KEY_HASHES entry %d is not a bcrypt hash", i+1)
		}
		creds = append(creds, cred)
	}
	return creds, nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT. The
// charm logger serves as the slog handler so that services depend on slog only.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		level = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	if c.LogFormat == "text" {
		handler.SetFormatter(charmlog.TextFormatter)
	} else {
		handler.SetFormatter(charmlog.JSONFormatter)
	}
	return slog.New(handler)
}
