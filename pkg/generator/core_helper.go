package generator

import (
	"fmt"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/imgutil"

	"google.golang.org/genai"
)

// toPart はバイト列を genai.Part (InlineData) に変換します。
// mimeType が空の場合は内容から判定し、画像でなければ nil を返します。
func toPart(data []byte, mimeType string) *genai.Part {
	if mimeType == "" {
		detected, ok := imgutil.DetectImageMIME(data)
		if !ok {
			return nil
		}
		mimeType = detected
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse は Gemini のレスポンスから最初の画像パーツを取り出します。
func parseToResponse(resp *genai.GenerateContentResponse, defaultMIME string) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: Geminiからの有効な応答がありませんでした", domain.ErrEdit)
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = defaultMIME
				}
				return &domain.ImageResponse{Data: part.InlineData.Data, MimeType: mimeType}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("%w: 画像編集が異常終了しました (FinishReason: %s)", domain.ErrEdit, candidate.FinishReason)
	}
	return nil, fmt.Errorf("%w: 画像データが見つかりませんでした", domain.ErrEdit)
}
