package orchestrator

import (
	"github.com/shouni/gemini-menu-studio/pkg/domain"
)

// EventKind は購読者に通知される状態変化の種類です。
type EventKind string

const (
	EventMenuLoading   EventKind = "menu_loading"
	EventMenuParsed    EventKind = "menu_parsed"
	EventMenuFailed    EventKind = "menu_failed"
	EventStyleChanged  EventKind = "style_changed"
	EventAspectChanged EventKind = "aspect_changed"
	EventSlotUpdated   EventKind = "slot_updated"
	EventEditOpened    EventKind = "edit_opened"
	EventEditApplying  EventKind = "edit_applying"
	EventEditFailed    EventKind = "edit_failed"
	EventEditApplied   EventKind = "edit_applied"
	EventEditClosed    EventKind = "edit_closed"
	EventError         EventKind = "error"
)

// Event は1回の状態変化を表します。Dish は料理単位の変化のときだけ設定されます。
// 購読チャネルが詰まっている場合は捨てられるため、正となる状態は常に Snapshot です。
type Event struct {
	Kind     EventKind
	Dish     string
	Epoch    uint64
	Revision uint64
}

// Snapshot はある時点のギャラリー状態の複製です。呼び出し側が自由に変更して構いません。
type Snapshot struct {
	MenuText    string
	Dishes      []domain.Dish
	Style       domain.StyleID
	// Aspect は利用者が選んだアスペクト比です。空ならスタイルの既定値が使われます。
	Aspect      domain.AspectRatio
	Images      map[string]domain.ImageSlot
	LoadingMenu bool
	Generating  bool
	Error       string
	Edit        *domain.EditSession
	Epoch       uint64
	Revision    uint64
}

// state は Orchestrator が mu の下でのみ触る内部状態です。
type state struct {
	menuText    string
	dishes      []domain.Dish
	style       domain.StyleID
	aspect      domain.AspectRatio
	images      map[string]domain.ImageSlot
	loadingMenu bool
	generating  bool
	errMsg      string
	edit        *domain.EditSession

	// epoch は解析または生成パスを開始するたびに進みます。
	// 結果は開始時の epoch が現在値と一致する場合にだけ反映されます。
	epoch uint64
	// outstanding は現在のパスで未確定のタスク数です。
	outstanding int
	revision    uint64
}

func (s *state) snapshot() Snapshot {
	out := Snapshot{
		MenuText:    s.menuText,
		Dishes:      append([]domain.Dish(nil), s.dishes...),
		Style:       s.style,
		Aspect:      s.aspect,
		Images:      make(map[string]domain.ImageSlot, len(s.images)),
		LoadingMenu: s.loadingMenu,
		Generating:  s.generating,
		Error:       s.errMsg,
		Epoch:       s.epoch,
		Revision:    s.revision,
	}
	for name, slot := range s.images {
		out.Images[name] = slot.Clone()
	}
	if s.edit != nil {
		e := *s.edit
		out.Edit = &e
	}
	return out
}

func (s *state) hasDish(name string) (domain.Dish, bool) {
	for _, d := range s.dishes {
		if d.Name == name {
			return d, true
		}
	}
	return domain.Dish{}, false
}
