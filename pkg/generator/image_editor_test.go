package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiImageEditor_EditImage(t *testing.T) {
	ctx := context.Background()
	req := domain.ImageEditRequest{
		Data:        []byte{0xFF, 0xD8, 0xFF},
		MimeType:    "image/jpeg",
		Instruction: "put it on a slate board",
	}

	t.Run("成功: 画像パーツと指示文の2パーツを送るのだ", func(t *testing.T) {
		model := &mockContentModel{
			generateContentFunc: func(ctx context.Context, name string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				assert.Equal(t, "gemini-2.5-flash-image", name)
				require.Len(t, contents, 1)
				parts := contents[0].Parts
				require.Len(t, parts, 2)
				assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
				assert.Equal(t, req.Data, parts[0].InlineData.Data)
				assert.Equal(t, req.Instruction, parts[1].Text)
				return imageResponse(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("edited")}}), nil
			},
		}
		editor, err := NewGeminiImageEditor(model, "gemini-2.5-flash-image")
		require.NoError(t, err)

		out, err := editor.EditImage(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "edited", string(out.Data))
		assert.Equal(t, "image/png", out.MimeType)
	})

	t.Run("成功: 出力モダリティに画像を指定するのだ", func(t *testing.T) {
		model := &mockContentModel{
			generateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return imageResponse(&genai.Part{InlineData: &genai.Blob{Data: []byte("edited")}}), nil
			},
		}
		editor, _ := NewGeminiImageEditor(model, "m")

		_, err := editor.EditImage(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, model.lastConfig)
		assert.Equal(t, []string{string(genai.ModalityImage)}, model.lastConfig.ResponseModalities)
		require.NotNil(t, model.lastConfig.Temperature)
		assert.InDelta(t, 0.4, *model.lastConfig.Temperature, 1e-6)
	})

	t.Run("失敗: 画像パーツがなければ EditError なのだ", func(t *testing.T) {
		model := &mockContentModel{
			generateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return imageResponse(&genai.Part{Text: "I cannot edit this"}), nil
			},
		}
		editor, _ := NewGeminiImageEditor(model, "m")
		_, err := editor.EditImage(ctx, req)
		assert.True(t, errors.Is(err, domain.ErrEdit), "got %v", err)
	})

	t.Run("失敗: 通信エラーは再試行せず文脈付きでラップされるのだ", func(t *testing.T) {
		expectedErr := errors.New("ai error")
		calls := 0
		model := &mockContentModel{
			generateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				calls++
				return nil, expectedErr
			},
		}
		editor, _ := NewGeminiImageEditor(model, "m")
		_, err := editor.EditImage(ctx, req)
		assert.ErrorIs(t, err, expectedErr)
		assert.True(t, strings.Contains(err.Error(), "Gemini画像編集エラー"))
		assert.Equal(t, 1, calls)
	})

	t.Run("失敗: 空の指示文では通信しないのだ", func(t *testing.T) {
		called := false
		model := &mockContentModel{
			generateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				called = true
				return nil, nil
			},
		}
		editor, _ := NewGeminiImageEditor(model, "m")
		_, err := editor.EditImage(ctx, domain.ImageEditRequest{Data: req.Data, MimeType: req.MimeType, Instruction: "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, called)
	})
}

func TestNewGeminiImageEditor(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewGeminiImageEditor(nil, "model")
		assert.Error(t, err)
		_, err = NewGeminiImageEditor(&mockContentModel{}, "")
		assert.Error(t, err)
	})
}
