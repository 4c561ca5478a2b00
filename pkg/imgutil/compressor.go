package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
)

// DefaultJPEGQuality は取り込み画像を再圧縮する際の既定品質です。
const DefaultJPEGQuality = 85

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// DetectImageMIME はバイト列から画像のMIMEタイプを判定します。
// 画像でない場合は ok=false を返します。
func DetectImageMIME(data []byte) (mimeType string, ok bool) {
	mimeType = http.DetectContentType(data)
	return mimeType, strings.HasPrefix(mimeType, "image/")
}
