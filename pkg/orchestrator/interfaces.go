package orchestrator

import (
	"context"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
)

// MenuParser はメニューテキストを料理リストに変換します。
type MenuParser interface {
	ParseMenu(ctx context.Context, menuText string) ([]domain.Dish, error)
}

// ImageGenerator は料理1品分の画像を指定スタイルで生成します。
// aspect が空ならスタイルの既定アスペクト比を使います。
type ImageGenerator interface {
	GenerateDishImage(ctx context.Context, dish domain.Dish, style domain.StyleID, aspect domain.AspectRatio) (*domain.ImageResponse, error)
}

// ImageEditor は既存画像を指示文に従って編集します。
type ImageEditor interface {
	EditImage(ctx context.Context, req domain.ImageEditRequest) (*domain.ImageResponse, error)
}

// ImageLoader は既存の写真を URL から取り込みます。
type ImageLoader interface {
	Load(ctx context.Context, rawURL string) (*domain.ImageResponse, error)
}

// StyleCatalog は受け付けるスタイルの集合です。
type StyleCatalog interface {
	Has(id domain.StyleID) bool
	Default() domain.StyleID
}
