package generator

import (
	"context"

	"google.golang.org/genai"
)

// ContentModel は generateContent 系の呼び出しを行うモデルです。*genai.Models が満たします。
// メニュー解析（構造化出力）と画像編集（画像出力）の両方で使います。
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageModel は Imagen 系の画像生成モデルです。*genai.Models が満たします。
type ImageModel interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}
