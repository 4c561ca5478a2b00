package imgutil

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURLPrefix = "data:"

// EncodeDataURL は画像バイト列をブラウザにそのまま渡せる data URL に変換します。
func EncodeDataURL(mimeType string, data []byte) string {
	return dataURLPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL は "data:<mime>;base64,<payload>" 形式を分解してバイト列とMIMEタイプを返します。
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, "", fmt.Errorf("data URL ではありません")
	}
	header, payload, found := strings.Cut(dataURL[len(dataURLPrefix):], ",")
	if !found {
		return nil, "", fmt.Errorf("data URL にペイロードがありません")
	}

	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("未対応のエンコーディングです: %q", encoding)
	}
	if mimeType == "" {
		return nil, "", fmt.Errorf("data URL にMIMEタイプがありません")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64 デコードに失敗しました: %w", err)
	}
	return data, mimeType, nil
}
