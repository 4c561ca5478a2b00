package generator

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"google.golang.org/genai"
)

// GeneratedMIMEType は料理画像の出力形式です。
const GeneratedMIMEType = "image/jpeg"

// PromptBuilder は料理とスタイルからプロンプトとアスペクト比を組み立てます。
// style.Catalog が満たします。
type PromptBuilder interface {
	Prompt(dish domain.Dish, id domain.StyleID) (prompt string, aspectRatio string, err error)
}

// ImagenGenerator は Imagen で料理画像を1枚生成するクライアントです。
type ImagenGenerator struct {
	model   ImageModel
	name    string
	prompts PromptBuilder
}

// NewImagenGenerator は依存関係を検証して ImagenGenerator を生成します。
func NewImagenGenerator(model ImageModel, modelName string, prompts PromptBuilder) (*ImagenGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("model (ImageModel) is required")
	}
	if prompts == nil {
		return nil, fmt.Errorf("prompts (PromptBuilder) is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("modelName is required")
	}
	return &ImagenGenerator{model: model, name: modelName, prompts: prompts}, nil
}

// GenerateDishImage は料理1品の画像を指定スタイルで生成します。
// aspect を指定した場合はスタイルのアスペクト比より優先します。
func (g *ImagenGenerator) GenerateDishImage(ctx context.Context, dish domain.Dish, styleID domain.StyleID, aspect domain.AspectRatio) (*domain.ImageResponse, error) {
	prompt, styleAspect, err := g.prompts.Prompt(dish, styleID)
	if err != nil {
		return nil, err
	}
	if aspect == "" {
		aspect = domain.AspectRatio(styleAspect)
	} else if !aspect.Valid() {
		return nil, fmt.Errorf("%w: 未対応のアスペクト比です: %q", domain.ErrValidation, aspect)
	}
	return g.Generate(ctx, domain.ImageGenerationRequest{Prompt: prompt, AspectRatio: aspect.String()})
}

// Generate は組み立て済みのリクエストで1枚だけ生成し、最初の画像を返します。
func (g *ImagenGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: GeneratedMIMEType,
		AspectRatio:    req.AspectRatio,
	}

	resp, err := g.model.GenerateImages(ctx, g.name, req.Prompt, cfg)
	if err != nil {
		return nil, fmt.Errorf("Imagen画像生成エラー: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("%w: 画像が返されませんでした", domain.ErrGeneration)
	}

	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: 画像データが空です", domain.ErrGeneration)
	}
	return &domain.ImageResponse{Data: img.ImageBytes, MimeType: GeneratedMIMEType}, nil
}
