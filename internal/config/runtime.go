package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultListenAddr      = ":8080"
	defaultJWTAccessTTL    = "15m"
	defaultRefreshTTL      = "168h"
	defaultReviewDelay     = "2s"
	defaultUploadDir       = "./uploads"
	defaultStaticURLBase   = "/static/uploads"
	defaultStartingBalance = "100000"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultRefreshPepper   = "change-me-refresh-pepper"
)

// RuntimeConfig is the typed view of the process environment.
type RuntimeConfig struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret          string
	JWTAccessTTL       time.Duration
	RefreshTTL         time.Duration
	RefreshTokenPepper string

	// AutoReviewDelay is how long a fresh verification request stays pending
	// before the simulated reviewer approves it. This stands in for a real
	// compliance review and must be replaced before any production use.
	AutoReviewDelay time.Duration

	UploadDir     string
	StaticURLBase string

	// WalletStartingBalance is the demo balance granted to a new wallet.
	// There is no real payment rail behind it.
	WalletStartingBalance decimal.Decimal
}

func Load() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "proptoken.db")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RefreshTokenPepper = strings.TrimSpace(getEnv("REFRESH_TOKEN_PEPPER", defaultRefreshPepper))
	cfg.UploadDir = getEnv("UPLOAD_DIR", defaultUploadDir)
	cfg.StaticURLBase = getEnv("STATIC_URL_BASE", defaultStaticURLBase)

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.AutoReviewDelay, err = parseDurationEnv("AUTO_REVIEW_DELAY", defaultReviewDelay)
	if err != nil {
		return nil, err
	}

	balance := strings.TrimSpace(getEnv("WALLET_STARTING_BALANCE", defaultStartingBalance))
	cfg.WalletStartingBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid WALLET_STARTING_BALANCE value %q: %w", balance, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *RuntimeConfig) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.AutoReviewDelay < 0 {
		return fmt.Errorf("AUTO_REVIEW_DELAY must be >= 0")
	}
	if cfg.WalletStartingBalance.IsNegative() {
		return fmt.Errorf("WALLET_STARTING_BALANCE must be >= 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshTokenPepper, defaultRefreshPepper) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_PEPPER must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
