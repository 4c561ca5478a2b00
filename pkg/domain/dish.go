package domain

// Dish はメニューから抽出された料理（または飲み物）1品です。
// Name がギャラリー内での識別子になります。同名の料理は状態を共有してしまいますが、
// これは許容された制約です。
type Dish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StyleID はスタイルカタログ上のスタイル識別子です。
type StyleID string

func (s StyleID) String() string { return string(s) }
