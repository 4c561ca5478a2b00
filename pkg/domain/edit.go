package domain

// EditMode は編集モーダルの種類です。
type EditMode string

const (
	// EditFull は画像全体への自由な編集です。
	EditFull EditMode = "full"
	// EditBackground は料理を残したまま背景だけを差し替える編集です。
	EditBackground EditMode = "background"
)

// Valid は既知のモードかどうかを返します。
func (m EditMode) Valid() bool {
	return m == EditFull || m == EditBackground
}

// EditSession は編集モーダルが開いている間だけ存在する一時的な状態です。
type EditSession struct {
	Dish     Dish
	Mode     EditMode
	ImageURL string // 編集対象画像の data URL
	Applying bool
	Err      string // 直近の編集失敗メッセージ（再試行可能）
}
