package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-menu-studio/internal/config"
	"github.com/shouni/gemini-menu-studio/pkg/asset"
	"github.com/shouni/gemini-menu-studio/pkg/generator"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"
	"github.com/shouni/gemini-menu-studio/pkg/style"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext はアプリケーションの依存関係を保持します。
// セッションごとの Orchestrator はここに集めたクライアントを共有します。
type AppContext struct {
	Config *config.Config
	Styles *style.Catalog

	Parser    orchestrator.MenuParser
	Generator orchestrator.ImageGenerator
	Editor    orchestrator.ImageEditor
	Loader    orchestrator.ImageLoader

	IOFactory remoteio.IOFactory
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	// 1. スタイルカタログ
	styles, err := loadStyles(cfg.StyleCatalogPath)
	if err != nil {
		return nil, err
	}

	// 2. AI クライアント
	models, err := initializeGenAIModels(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	parser, err := generator.NewGeminiMenuParser(models, cfg.TextModel)
	if err != nil {
		return nil, fmt.Errorf("メニューパーサーの初期化に失敗しました: %w", err)
	}
	imageGen, err := generator.NewImagenGenerator(models, cfg.ImageModel, styles)
	if err != nil {
		return nil, fmt.Errorf("画像生成クライアントの初期化に失敗しました: %w", err)
	}
	editor, err := generator.NewGeminiImageEditor(models, cfg.EditModel)
	if err != nil {
		return nil, fmt.Errorf("画像編集クライアントの初期化に失敗しました: %w", err)
	}

	// 3. 画像取り込み (HTTP + 任意で GCS)
	appCtx := &AppContext{
		Config:    cfg,
		Styles:    styles,
		Parser:    parser,
		Generator: imageGen,
		Editor:    editor,
	}

	var reader asset.ObjectReader
	if cfg.GCSImportEnabled {
		factory, r, err := buildRemoteIO(ctx)
		if err != nil {
			return nil, err
		}
		appCtx.IOFactory = factory
		reader = r
	}

	loader, err := asset.NewLoader(
		httpkit.New(cfg.HTTPTimeout),
		reader,
		cache.New(cfg.AssetCacheTTL, 2*cfg.AssetCacheTTL),
		asset.Options{CacheTTL: cfg.AssetCacheTTL, Compress: true},
	)
	if err != nil {
		appCtx.Close()
		return nil, fmt.Errorf("画像ローダーの初期化に失敗しました: %w", err)
	}
	appCtx.Loader = loader

	return appCtx, nil
}

// NewOrchestrator はブラウザセッション1つ分の Orchestrator を生成します。
func (a *AppContext) NewOrchestrator() (*orchestrator.Orchestrator, error) {
	return orchestrator.New(
		orchestrator.Deps{
			Parser:    a.Parser,
			Generator: a.Generator,
			Editor:    a.Editor,
			Loader:    a.Loader,
			Styles:    a.Styles,
		},
		orchestrator.Config{
			MaxConcurrent:     int64(a.Config.MaxConcurrentGenerations),
			GenerationTimeout: a.Config.GenerationTimeout,
		},
	)
}

// Close は、AppContextが保持するすべてのリソースを解放します。
func (a *AppContext) Close() {
	if a.IOFactory != nil {
		if err := a.IOFactory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
}

func loadStyles(path string) (*style.Catalog, error) {
	if path == "" {
		styles, err := style.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("既定スタイルカタログの読み込みに失敗しました: %w", err)
		}
		return styles, nil
	}
	styles, err := style.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("スタイルカタログが不正です: %w", err)
	}
	slog.Info("スタイルカタログを読み込みました", "path", path, "styles", len(styles.Styles()))
	return styles, nil
}
