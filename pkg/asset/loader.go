package asset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/imgutil"
)

const (
	cacheKeyPrefix = "asset:"
	// DefaultMaxBytes は取り込む画像の上限サイズです。
	DefaultMaxBytes = 10 << 20
)

// Options は Loader の挙動を調整します。
type Options struct {
	CacheTTL time.Duration
	// Compress が true の場合、取り込んだ画像を JPEG に再圧縮します。
	Compress bool
	Quality  int
	MaxBytes int
}

// Loader は既存の料理写真を URL から取り込むコンポーネントです。
// http(s) は SSRF チェックの上で HTTPClient から、gs:// は ObjectReader から取得します。
type Loader struct {
	httpClient HTTPClient
	reader     ObjectReader
	cache      ImageCacher
	opts       Options
	checkURL   func(string) (bool, error)
}

// NewLoader は依存関係を注入して Loader を初期化します。
// reader と cache は nil を許容します（gs:// 無効、キャッシュなし動作）。
func NewLoader(httpClient HTTPClient, reader ObjectReader, cache ImageCacher, opts Options) (*Loader, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = imgutil.DefaultJPEGQuality
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	return &Loader{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		opts:       opts,
		checkURL:   IsSafeURL,
	}, nil
}

// Load は URL から画像を取得し、表示・編集に使える形で返します。
func (l *Loader) Load(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: URLが空です", domain.ErrValidation)
	}

	// キャッシュの確認
	if l.cache != nil {
		if cached, found := l.cache.Get(cacheKeyPrefix + rawURL); found {
			if data, ok := cached.([]byte); ok {
				return l.toResponse(data)
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if len(data) > l.opts.MaxBytes {
		return nil, fmt.Errorf("%w: 画像が大きすぎます (%d バイト)", domain.ErrValidation, len(data))
	}
	if _, ok := imgutil.DetectImageMIME(data); !ok {
		return nil, fmt.Errorf("%w: 取得したデータは画像ではありません", domain.ErrValidation)
	}

	finalData := data
	if l.opts.Compress {
		if compressed, err := imgutil.CompressToJPEG(data, l.opts.Quality); err == nil {
			finalData = compressed
		} else {
			slog.WarnContext(ctx, "JPEG再圧縮に失敗したため元データを使います", "url", rawURL, "error", err)
		}
	}

	if l.cache != nil {
		l.cache.Set(cacheKeyPrefix+rawURL, finalData, l.opts.CacheTTL)
	}
	return l.toResponse(finalData)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if l.reader == nil {
			return nil, fmt.Errorf("%w: gs:// からの取り込みは無効です", domain.ErrUnsafeURL)
		}
		rc, err := l.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("GCSオブジェクトのオープンに失敗しました: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, int64(l.opts.MaxBytes)+1))
	}

	if safe, err := l.checkURL(rawURL); err != nil || !safe {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsafeURL, err)
	}

	data, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	return data, nil
}

func (l *Loader) toResponse(data []byte) (*domain.ImageResponse, error) {
	mimeType, ok := imgutil.DetectImageMIME(data)
	if !ok {
		return nil, fmt.Errorf("%w: 画像ではありません", domain.ErrValidation)
	}
	return &domain.ImageResponse{Data: data, MimeType: mimeType}, nil
}
