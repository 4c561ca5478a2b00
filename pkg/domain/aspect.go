package domain

// AspectRatio は生成画像の縦横比です。空文字はスタイルごとの既定値を意味します。
type AspectRatio string

// 生成APIが受け付けるアスペクト比。画面での表示順に並べています。
var supportedAspectRatios = []AspectRatio{"4:3", "1:1", "16:9", "3:4", "9:16"}

// Valid は生成APIが受け付ける値かどうかを返します。空文字は false です。
func (a AspectRatio) Valid() bool {
	for _, s := range supportedAspectRatios {
		if a == s {
			return true
		}
	}
	return false
}

func (a AspectRatio) String() string { return string(a) }

// SupportedAspectRatios は選択可能なアスペクト比の一覧のコピーを返します。
func SupportedAspectRatios() []AspectRatio {
	return append([]AspectRatio(nil), supportedAspectRatios...)
}
