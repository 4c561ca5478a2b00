package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"google.golang.org/genai"
)

// EditedMIMEType は編集結果にMIMEタイプが付いていない場合の既定値です。
const EditedMIMEType = "image/png"

// 編集は元画像からの逸脱を抑えたいので低めにする
const editTemperature = float32(0.4)

// GeminiImageEditor は既存画像と指示文から編集済み画像を得るクライアントです。
// 呼び出しは1回だけで、失敗時の再試行は利用者に任せます。
type GeminiImageEditor struct {
	model ContentModel
	name  string
}

// NewGeminiImageEditor は依存関係を検証して GeminiImageEditor を生成します。
func NewGeminiImageEditor(model ContentModel, modelName string) (*GeminiImageEditor, error) {
	if model == nil {
		return nil, fmt.Errorf("model (ContentModel) is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("modelName is required")
	}
	return &GeminiImageEditor{model: model, name: modelName}, nil
}

// EditImage は画像パーツ1つとテキストパーツ1つを送り、返ってきた最初の画像を返します。
// 全体編集か背景編集かはプロンプトの文言だけで区別され、呼び出し側が組み立てます。
func (e *GeminiImageEditor) EditImage(ctx context.Context, req domain.ImageEditRequest) (*domain.ImageResponse, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: 編集対象の画像が空です", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("%w: 編集指示が空です", domain.ErrValidation)
	}

	imgPart := toPart(req.Data, req.MimeType)
	if imgPart == nil {
		return nil, fmt.Errorf("%w: 編集対象が画像ではありません", domain.ErrValidation)
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{imgPart, {Text: req.Instruction}},
	}}
	cfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(editTemperature),
		CandidateCount:     1,
		ResponseModalities: []string{string(genai.ModalityImage)},
	}

	slog.DebugContext(ctx, "Geminiに画像編集をリクエストします", "model", e.name, "mime_type", imgPart.InlineData.MIMEType)
	resp, err := e.model.GenerateContent(ctx, e.name, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像編集エラー: %w", err)
	}

	return parseToResponse(resp, EditedMIMEType)
}
