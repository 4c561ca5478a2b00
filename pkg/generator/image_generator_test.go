package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/style"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagenGenerator_GenerateDishImage(t *testing.T) {
	ctx := context.Background()
	dish := domain.Dish{Name: "Margherita Pizza", Description: "Classic pizza with mozzarella, tomato, basil."}

	t.Run("成功: 1枚だけJPEGで要求し、最初の画像を返すのだ", func(t *testing.T) {
		model := &mockImageModel{images: [][]byte{[]byte("first"), []byte("second")}}
		gen, err := NewImagenGenerator(model, "imagen-4.0-generate-001", stubPrompts{aspect: "4:3"})
		require.NoError(t, err)

		out, err := gen.GenerateDishImage(ctx, dish, "bright-modern", "")
		require.NoError(t, err)
		assert.Equal(t, "first", string(out.Data))
		assert.Equal(t, "image/jpeg", out.MimeType)

		require.NotNil(t, model.lastConfig)
		assert.EqualValues(t, 1, model.lastConfig.NumberOfImages)
		assert.Equal(t, "image/jpeg", model.lastConfig.OutputMIMEType)
		assert.Equal(t, "4:3", model.lastConfig.AspectRatio)
		assert.Equal(t, "Margherita Pizza / bright-modern", model.lastPrompt)
	})

	t.Run("成功: 実カタログのSNSスタイルは 1:1 で要求するのだ", func(t *testing.T) {
		catalog, err := style.LoadDefault()
		require.NoError(t, err)
		model := &mockImageModel{images: [][]byte{[]byte("img")}}
		gen, _ := NewImagenGenerator(model, "imagen", catalog)

		_, err = gen.GenerateDishImage(ctx, dish, "social-flat-lay", "")
		require.NoError(t, err)
		assert.Equal(t, "1:1", model.lastConfig.AspectRatio)
		assert.Contains(t, model.lastPrompt, `"Margherita Pizza"`)
		assert.Contains(t, model.lastPrompt, "flat-lay")
	})

	t.Run("成功: アスペクト比の指定はスタイルの既定より優先するのだ", func(t *testing.T) {
		catalog, err := style.LoadDefault()
		require.NoError(t, err)
		model := &mockImageModel{images: [][]byte{[]byte("img")}}
		gen, _ := NewImagenGenerator(model, "imagen", catalog)

		_, err = gen.GenerateDishImage(ctx, dish, "social-flat-lay", "16:9")
		require.NoError(t, err)
		assert.Equal(t, "16:9", model.lastConfig.AspectRatio)
		assert.Contains(t, model.lastPrompt, "flat-lay")
	})

	t.Run("失敗: 未対応のアスペクト比では通信しないのだ", func(t *testing.T) {
		model := &mockImageModel{images: [][]byte{[]byte("img")}}
		gen, _ := NewImagenGenerator(model, "imagen", stubPrompts{aspect: "4:3"})
		_, err := gen.GenerateDishImage(ctx, dish, "bright-modern", "2:1")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, model.lastConfig)
	})

	t.Run("失敗: 画像が0枚なら GenerationError なのだ", func(t *testing.T) {
		gen, _ := NewImagenGenerator(&mockImageModel{}, "imagen", stubPrompts{aspect: "4:3"})
		_, err := gen.GenerateDishImage(ctx, dish, "bright-modern", "")
		assert.True(t, errors.Is(err, domain.ErrGeneration), "got %v", err)
	})

	t.Run("失敗: 画像データが空でも GenerationError なのだ", func(t *testing.T) {
		gen, _ := NewImagenGenerator(&mockImageModel{images: [][]byte{nil}}, "imagen", stubPrompts{aspect: "4:3"})
		_, err := gen.GenerateDishImage(ctx, dish, "bright-modern", "")
		assert.True(t, errors.Is(err, domain.ErrGeneration), "got %v", err)
	})

	t.Run("失敗: プロンプト組み立てエラーでは通信しないのだ", func(t *testing.T) {
		model := &mockImageModel{}
		gen, _ := NewImagenGenerator(model, "imagen", stubPrompts{err: domain.ErrValidation})
		_, err := gen.GenerateDishImage(ctx, dish, "unknown", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, model.lastPrompt)
	})

	t.Run("失敗: 通信エラーはラップされるのだ", func(t *testing.T) {
		expectedErr := errors.New("503")
		gen, _ := NewImagenGenerator(&mockImageModel{err: expectedErr}, "imagen", stubPrompts{aspect: "4:3"})
		_, err := gen.GenerateDishImage(ctx, dish, "bright-modern", "")
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestNewImagenGenerator(t *testing.T) {
	_, err := NewImagenGenerator(nil, "m", stubPrompts{})
	assert.Error(t, err)
	_, err = NewImagenGenerator(&mockImageModel{}, "m", nil)
	assert.Error(t, err)
}
