package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = "8080"
	DefaultServiceURL = "http://localhost:8080"
	// DefaultTextModel はメニュー解析（構造化出力）に使うモデルです。
	DefaultTextModel = "gemini-2.5-flash"
	// DefaultImageModel は料理写真の生成に使う Imagen モデルです。
	DefaultImageModel = "imagen-4.0-generate-001"
	// DefaultEditModel は画像編集に使うマルチモーダルモデルです。
	DefaultEditModel = "gemini-2.5-flash-image"

	DefaultMaxConcurrentGenerations = 4
	// DefaultGenerationTimeout は Imagen の応答時間を考慮した1品あたりのタイムアウト
	DefaultGenerationTimeout = 90 * time.Second
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultSessionTTL        = 30 * time.Minute
	DefaultAssetCacheTTL     = 10 * time.Minute
	DefaultShutdownTimeout   = 15 * time.Second
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	Port         string
	ServiceURL   string
	GeminiAPIKey string

	TextModel  string // メニュー解析用モデル
	ImageModel string // 料理写真生成用モデル
	EditModel  string // 画像編集用モデル

	// MaxConcurrentGenerations はセッションごとの同時画像生成数です。0 なら無制限です。
	MaxConcurrentGenerations int
	GenerationTimeout        time.Duration
	HTTPTimeout              time.Duration
	SessionTTL               time.Duration
	ShutdownTimeout          time.Duration

	// StyleCatalogPath が空なら埋め込みの既定カタログを使います。
	StyleCatalogPath string
	AssetCacheTTL    time.Duration
	// GCSImportEnabled が true の場合、gs:// からの画像取り込みを有効にします。
	GCSImportEnabled bool
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
// カレントディレクトリに .env があれば先に読み込みます（既存の環境変数は上書きしません）。
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info(".env を読み込みました")
	}

	return &Config{
		Port:         getEnv("PORT", DefaultPort),
		ServiceURL:   getEnv("SERVICE_URL", DefaultServiceURL),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		TextModel:  getEnv("TEXT_MODEL", DefaultTextModel),
		ImageModel: getEnv("IMAGE_MODEL", DefaultImageModel),
		EditModel:  getEnv("EDIT_MODEL", DefaultEditModel),

		MaxConcurrentGenerations: getEnvInt("MAX_CONCURRENT_GENERATIONS", DefaultMaxConcurrentGenerations, 0, 32),
		GenerationTimeout:        getEnvDuration("GENERATION_TIMEOUT", DefaultGenerationTimeout),
		HTTPTimeout:              getEnvDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
		SessionTTL:               getEnvDuration("SESSION_TTL", DefaultSessionTTL),
		ShutdownTimeout:          getEnvDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),

		StyleCatalogPath: getEnv("STYLE_CATALOG_PATH", ""),
		AssetCacheTTL:    getEnvDuration("ASSET_CACHE_TTL", DefaultAssetCacheTTL),
		GCSImportEnabled: getEnvBool("GCS_IMPORT_ENABLED", false),
	}
}
