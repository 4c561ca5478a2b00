package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/netarmor/securenet"
)

func getEnv(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

// getEnvInt は整数の環境変数を読み、範囲外や不正値なら fallback を返します。
func getEnvInt(key string, fallback, min, max int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

// getEnvDuration は "90s" 形式のほか、単位のない数値を秒として受け付けます。
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数の値が不正なため既定値を使います", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
func ValidateEssentialConfig(cfg *Config) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("configuration error: GEMINI_API_KEY is not set")
	}
	if cfg.TextModel == "" || cfg.ImageModel == "" || cfg.EditModel == "" {
		return fmt.Errorf("configuration error: model names must not be empty")
	}

	for name, d := range map[string]time.Duration{
		"GENERATION_TIMEOUT": cfg.GenerationTimeout,
		"HTTP_TIMEOUT":       cfg.HTTPTimeout,
		"SESSION_TTL":        cfg.SessionTTL,
		"SHUTDOWN_TIMEOUT":   cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("configuration error: %s must be positive (got %s)", name, d)
		}
	}

	if !IsSecureURL(cfg.ServiceURL) {
		slog.Warn("SERVICE_URL が HTTPS ではないため Secure 属性なしで Cookie を発行します", "service_url", cfg.ServiceURL)
	}
	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}

// SecureCookie はセッション Cookie に Secure 属性を付けるべきかを返します。
// localhost は securenet 上は安全扱いですが、平文 HTTP では Secure Cookie が送られないため除外します。
func (c Config) SecureCookie() bool {
	return strings.HasPrefix(strings.ToLower(c.ServiceURL), "https://") && IsSecureURL(c.ServiceURL)
}
