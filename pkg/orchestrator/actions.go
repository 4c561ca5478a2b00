package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/imgutil"
)

// backgroundEditFormat は背景編集モードで利用者の指示を包む定型文です。
const backgroundEditFormat = "Replace only the background of this food photograph with: %s. " +
	"Keep the dish, its plating, lighting on the food and its position in the frame exactly as they are."

// Submit はメニューテキストを解析し、成功すれば料理ごとの画像生成を開始します。
// 解析の完了までは呼び出し側をブロックしますが、画像生成は待ちません。
func (o *Orchestrator) Submit(ctx context.Context, menuText string) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if strings.TrimSpace(menuText) == "" {
		o.dispatch(func(s *state) *Event {
			s.errMsg = MsgEmptyMenu
			return &Event{Kind: EventError}
		})
		return fmt.Errorf("%w: %s", domain.ErrValidation, MsgEmptyMenu)
	}

	var token uint64
	o.dispatch(func(s *state) *Event {
		if o.passCancel != nil {
			o.passCancel()
			o.passCancel = nil
		}
		s.epoch++
		token = s.epoch
		s.menuText = menuText
		s.errMsg = ""
		s.loadingMenu = true
		s.generating = false
		s.outstanding = 0
		s.dishes = nil
		s.images = make(map[string]domain.ImageSlot)
		s.edit = nil
		return &Event{Kind: EventMenuLoading}
	})

	slog.InfoContext(ctx, "メニューを解析します", "epoch", token, "length", len(menuText))
	dishes, err := o.parser.ParseMenu(ctx, menuText)
	if err != nil {
		current := o.dispatch(func(s *state) *Event {
			if s.epoch != token {
				return nil
			}
			s.loadingMenu = false
			s.errMsg = MsgParseFailed
			return &Event{Kind: EventMenuFailed}
		})
		slog.WarnContext(ctx, "メニューの解析に失敗しました", "epoch", token, "error", err)
		if !current {
			return ErrSuperseded
		}
		return fmt.Errorf("メニュー解析エラー: %w", err)
	}

	var closed bool
	current := o.dispatch(func(s *state) *Event {
		if o.closed {
			closed = true
			return nil
		}
		if s.epoch != token {
			return nil
		}
		s.loadingMenu = false
		s.dishes = append([]domain.Dish(nil), dishes...)
		o.startPassLocked(s)
		return &Event{Kind: EventMenuParsed}
	})
	if closed {
		return ErrClosed
	}
	if !current {
		slog.DebugContext(ctx, "古い解析結果を破棄しました", "epoch", token)
		return ErrSuperseded
	}
	return nil
}

// ChangeStyle はスタイルを切り替え、料理があれば全スロットを Pending に戻して再生成します。
func (o *Orchestrator) ChangeStyle(style domain.StyleID) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if !o.styles.Has(style) {
		return fmt.Errorf("%w: 未知のスタイルです: %q", domain.ErrValidation, style)
	}

	o.dispatch(func(s *state) *Event {
		s.style = style
		s.edit = nil
		if len(s.dishes) > 0 {
			o.startPassLocked(s)
		}
		return &Event{Kind: EventStyleChanged}
	})
	return nil
}

// ChangeAspect は生成画像のアスペクト比を切り替え、料理があれば ChangeStyle と同様に再生成します。
// 空文字を渡すと指定を解除し、スタイルの既定値に戻します。
func (o *Orchestrator) ChangeAspect(aspect domain.AspectRatio) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if aspect != "" && !aspect.Valid() {
		return fmt.Errorf("%w: 未対応のアスペクト比です: %q", domain.ErrValidation, aspect)
	}

	o.dispatch(func(s *state) *Event {
		s.aspect = aspect
		s.edit = nil
		if len(s.dishes) > 0 {
			o.startPassLocked(s)
		}
		return &Event{Kind: EventAspectChanged}
	})
	return nil
}

// RequestEdit は画像が Ready の料理について編集セッションを開きます。
// 対象が存在しない、まだ Ready でない、または編集を適用中の場合は何もせず false を返します。
func (o *Orchestrator) RequestEdit(dishName string, mode domain.EditMode) bool {
	if mode == "" {
		mode = domain.EditFull
	}
	if !mode.Valid() {
		return false
	}

	return o.dispatch(func(s *state) *Event {
		if s.edit != nil && s.edit.Applying {
			return nil
		}
		slot, ok := s.images[dishName]
		if !ok || !slot.IsReady() {
			return nil
		}
		dish, ok := s.hasDish(dishName)
		if !ok {
			return nil
		}
		s.edit = &domain.EditSession{
			Dish:     dish,
			Mode:     mode,
			ImageURL: imgutil.EncodeDataURL(slot.MimeType, slot.Data),
		}
		return &Event{Kind: EventEditOpened, Dish: dishName}
	})
}

// ApplyEdit は開いている編集セッションに指示文を適用します。
// 失敗してもスロットは変更せず、セッションにエラーを残したまま開いておきます。
func (o *Orchestrator) ApplyEdit(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)

	var (
		sess       *domain.EditSession
		session    domain.EditSession
		inProgress bool
		noPrompt   bool
	)
	o.dispatch(func(s *state) *Event {
		if s.edit == nil {
			return nil
		}
		if s.edit.Applying {
			inProgress = true
			return nil
		}
		if prompt == "" {
			noPrompt = true
			return nil
		}
		s.edit.Applying = true
		s.edit.Err = ""
		sess = s.edit
		session = *s.edit
		return &Event{Kind: EventEditApplying, Dish: s.edit.Dish.Name}
	})
	switch {
	case inProgress:
		return domain.ErrEditInProgress
	case noPrompt:
		return fmt.Errorf("%w: 編集指示が空です", domain.ErrValidation)
	case sess == nil:
		return domain.ErrNoEditSession
	}

	name := session.Dish.Name
	out, err := o.runEdit(ctx, session, prompt)
	if err != nil {
		slog.WarnContext(ctx, "画像編集に失敗しました", "dish", name, "mode", session.Mode, "error", err)
		o.dispatch(func(s *state) *Event {
			if s.edit != sess {
				return nil
			}
			s.edit.Applying = false
			s.edit.Err = MsgEditFailed
			return &Event{Kind: EventEditFailed, Dish: name}
		})
		return err
	}

	applied := o.dispatch(func(s *state) *Event {
		if s.edit != sess {
			return nil
		}
		s.images[name] = domain.ReadySlot(out.Data, mimeOr(out.MimeType, editedMIMEType))
		s.edit = nil
		return &Event{Kind: EventEditApplied, Dish: name}
	})
	if !applied {
		slog.InfoContext(ctx, "編集セッションが閉じられたため結果を破棄しました", "dish", name)
		return fmt.Errorf("%w: 結果の到着前にセッションが閉じられました", domain.ErrNoEditSession)
	}
	slog.InfoContext(ctx, "画像編集を反映しました", "dish", name, "mode", session.Mode)
	return nil
}

func (o *Orchestrator) runEdit(ctx context.Context, session domain.EditSession, prompt string) (*domain.ImageResponse, error) {
	data, mimeType, err := imgutil.DecodeDataURL(session.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("編集対象画像のデコードに失敗しました: %w", err)
	}

	instruction := prompt
	if session.Mode == domain.EditBackground {
		instruction = fmt.Sprintf(backgroundEditFormat, prompt)
	}

	out, err := o.editor.EditImage(ctx, domain.ImageEditRequest{
		Data:        data,
		MimeType:    mimeType,
		Instruction: instruction,
	})
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: 編集結果が空です", domain.ErrEdit)
	}
	return out, nil
}

// CloseEdit は編集セッションを破棄します。適用中の結果は到着しても反映されません。
func (o *Orchestrator) CloseEdit() {
	o.dispatch(func(s *state) *Event {
		if s.edit == nil {
			return nil
		}
		name := s.edit.Dish.Name
		s.edit = nil
		return &Event{Kind: EventEditClosed, Dish: name}
	})
}

// ImportImage は既存の写真を取り込んで料理のスロットを Ready にします。
// 取り込んだ画像はそのまま編集の対象にできます。同じ料理の編集セッションは古い画像を
// 指しているので閉じます。
func (o *Orchestrator) ImportImage(ctx context.Context, dishName, rawURL string) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if o.loader == nil {
		return fmt.Errorf("%w: 画像の取り込みは設定されていません", domain.ErrValidation)
	}

	o.mu.Lock()
	_, exists := o.state.hasDish(dishName)
	token := o.state.epoch
	o.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: 料理が見つかりません: %q", domain.ErrValidation, dishName)
	}

	img, err := o.loader.Load(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "画像の取り込みに失敗しました", "dish", dishName, "error", err)
		o.dispatch(func(s *state) *Event {
			if s.epoch != token {
				return nil
			}
			s.errMsg = fmt.Sprintf(MsgImportFailedFormat, dishName)
			return &Event{Kind: EventError, Dish: dishName}
		})
		return fmt.Errorf("画像取り込みエラー: %w", err)
	}

	applied := o.dispatch(func(s *state) *Event {
		if s.epoch != token {
			return nil
		}
		if _, ok := s.hasDish(dishName); !ok {
			return nil
		}
		s.images[dishName] = domain.ReadySlot(img.Data, img.MimeType)
		if s.edit != nil && s.edit.Dish.Name == dishName {
			s.edit = nil
		}
		return &Event{Kind: EventSlotUpdated, Dish: dishName}
	})
	if !applied {
		return ErrSuperseded
	}
	return nil
}
