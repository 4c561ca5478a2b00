package imgutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	t.Run("エンコードした data URL を元に戻せること", func(t *testing.T) {
		raw := []byte{0xFF, 0xD8, 0xFF, 0x00, 0x10}
		url := EncodeDataURL("image/jpeg", raw)
		assert.Contains(t, url, "data:image/jpeg;base64,")

		data, mime, err := DecodeDataURL(url)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mime)
		assert.Equal(t, raw, data)
	})

	tests := []struct {
		name  string
		input string
	}{
		{"data スキームではない", "https://example.com/a.png"},
		{"カンマがない", "data:image/png;base64"},
		{"base64 以外", "data:image/png;utf8,abc"},
		{"MIMEタイプなし", "data:;base64,AAAA"},
		{"不正な base64", "data:image/png;base64,%%%"},
	}
	for _, tt := range tests {
		t.Run("不正: "+tt.name, func(t *testing.T) {
			_, _, err := DecodeDataURL(tt.input)
			assert.Error(t, err)
		})
	}
}
