package domain

// SlotStatus は料理ごとの画像スロットの状態です。
type SlotStatus string

const (
	SlotPending SlotStatus = "pending"
	SlotReady   SlotStatus = "ready"
	SlotFailed  SlotStatus = "failed"
)

// ImageSlot は料理1品分の画像状態を保持します。
// Data と MimeType は Status が SlotReady のときだけ意味を持ちます。
type ImageSlot struct {
	Status   SlotStatus
	Data     []byte
	MimeType string
	Reason   string // SlotFailed の場合の失敗理由（ログ・表示用）
}

// PendingSlot は生成待ちのスロットを返します。
func PendingSlot() ImageSlot {
	return ImageSlot{Status: SlotPending}
}

// ReadySlot は表示可能な画像を持つスロットを返します。
func ReadySlot(data []byte, mimeType string) ImageSlot {
	return ImageSlot{Status: SlotReady, Data: data, MimeType: mimeType}
}

// FailedSlot は生成または編集に失敗したスロットを返します。
func FailedSlot(reason string) ImageSlot {
	return ImageSlot{Status: SlotFailed, Reason: reason}
}

// IsReady は編集や表示に使える画像を持っているかを返します。
func (s ImageSlot) IsReady() bool {
	return s.Status == SlotReady && len(s.Data) > 0
}

// Clone はバイト列も含めてスロットを複製します。
func (s ImageSlot) Clone() ImageSlot {
	out := s
	if s.Data != nil {
		out.Data = append([]byte(nil), s.Data...)
	}
	return out
}
