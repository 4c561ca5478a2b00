package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"golang.org/x/sync/semaphore"
)

// 画面に表示するメッセージ。
const (
	MsgEmptyMenu              = "menu must not be empty"
	MsgParseFailed            = "could not parse the menu; check formatting and retry"
	MsgGenerationFailedFormat = "could not generate an image for %s"
	MsgEditFailed             = "could not apply the edit; try another prompt or close the editor"
	MsgImportFailedFormat     = "could not import an image for %s"
)

var (
	// ErrClosed は Close 済みの Orchestrator に対する操作です。
	ErrClosed = errors.New("orchestrator is closed")
	// ErrSuperseded は処理中に新しい送信やスタイル変更があり、結果を破棄した場合のエラーです。
	ErrSuperseded = errors.New("superseded by a newer request")
)

const (
	defaultEventBuffer = 64
	generatedMIMEType  = "image/jpeg"
	editedMIMEType     = "image/png"
)

// Config は Orchestrator の動作設定です。
type Config struct {
	// MaxConcurrent は同時に実行する画像生成の上限です。0 以下なら無制限です。
	MaxConcurrent int64
	// GenerationTimeout は料理1品あたりの生成呼び出しのタイムアウトです。0 なら無制限です。
	GenerationTimeout time.Duration
	// EventBuffer は購読チャネルのバッファ長です。
	EventBuffer int
}

// Deps は Orchestrator が利用する外部クライアント群です。Loader だけは省略できます。
type Deps struct {
	Parser    MenuParser
	Generator ImageGenerator
	Editor    ImageEditor
	Loader    ImageLoader
	Styles    StyleCatalog
}

// Orchestrator はブラウザセッション1つ分のギャラリー状態を所有し、
// メニュー解析・料理ごとの画像生成・編集の流れを調停します。
// 状態の変更はすべて dispatch を経由し、mu の下で直列化されます。
type Orchestrator struct {
	parser    MenuParser
	generator ImageGenerator
	editor    ImageEditor
	loader    ImageLoader
	styles    StyleCatalog
	sem       *semaphore.Weighted
	cfg       Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      state
	passCancel context.CancelFunc
	subs       map[int]chan Event
	nextSub    int
	closed     bool
}

// New は依存関係を検証して Orchestrator を生成します。
func New(deps Deps, cfg Config) (*Orchestrator, error) {
	if deps.Parser == nil {
		return nil, fmt.Errorf("parser (MenuParser) is required")
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("generator (ImageGenerator) is required")
	}
	if deps.Editor == nil {
		return nil, fmt.Errorf("editor (ImageEditor) is required")
	}
	if deps.Styles == nil {
		return nil, fmt.Errorf("styles (StyleCatalog) is required")
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		parser:    deps.Parser,
		generator: deps.Generator,
		editor:    deps.Editor,
		loader:    deps.Loader,
		styles:    deps.Styles,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		subs:      make(map[int]chan Event),
		state: state{
			style:  deps.Styles.Default(),
			images: make(map[string]domain.ImageSlot),
		},
	}
	if cfg.MaxConcurrent > 0 {
		o.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return o, nil
}

// dispatch は状態変更の唯一の入口です。mutate が nil を返した場合は何も変わっていないものとして扱います。
// 変更があればリビジョンを進め、購読者に Event を配信して true を返します。
func (o *Orchestrator) dispatch(mutate func(s *state) *Event) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	ev := mutate(&o.state)
	if ev == nil {
		return false
	}
	o.state.revision++
	ev.Revision = o.state.revision
	ev.Epoch = o.state.epoch

	for _, ch := range o.subs {
		select {
		case ch <- *ev:
		default:
		}
	}
	return true
}

// Snapshot は現在の状態の深いコピーを返します。
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.snapshot()
}

// Subscribe は状態変化の通知チャネルと、購読を解除する関数を返します。
// 解除するとチャネルは閉じられます。Close 済みの場合は閉じたチャネルを返します。
func (o *Orchestrator) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, o.cfg.EventBuffer)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
}

// Wait は実行中のバックグラウンド生成がすべて終わるまで待ちます。
// Close の後に呼び出してください。Close 後は新しい生成が始まらないため、
// Wait と生成開始が競合しません。
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close は実行中の呼び出しをすべてキャンセルし、購読チャネルを閉じます。
// 複数回呼んでも安全です。
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.passCancel != nil {
		o.passCancel()
		o.passCancel = nil
	}
	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
	o.mu.Unlock()

	o.cancel()
}

// IsClosed は Close 済みかどうかを返します。
func (o *Orchestrator) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// startPassLocked は全スロットを Pending に戻し、新しい epoch で料理ごとの生成を開始します。
// mu を保持した状態で呼び出す必要があります。Close 済みならゴルーチンを起動しません。
func (o *Orchestrator) startPassLocked(s *state) {
	if o.passCancel != nil {
		o.passCancel()
		o.passCancel = nil
	}
	s.epoch++
	s.images = make(map[string]domain.ImageSlot, len(s.dishes))
	for _, d := range s.dishes {
		s.images[d.Name] = domain.PendingSlot()
	}
	s.outstanding = len(s.dishes)
	s.generating = s.outstanding > 0 && !o.closed
	if !s.generating {
		s.outstanding = 0
		return
	}

	passCtx, cancel := context.WithCancel(o.ctx)
	o.passCancel = cancel

	epoch, style, aspect := s.epoch, s.style, s.aspect
	slog.Info("画像生成パスを開始します", "epoch", epoch, "style", style, "aspect", aspect, "dishes", len(s.dishes))
	for _, d := range s.dishes {
		o.wg.Add(1)
		go o.generate(passCtx, epoch, d, style, aspect)
	}
}

func (o *Orchestrator) generate(ctx context.Context, epoch uint64, dish domain.Dish, style domain.StyleID, aspect domain.AspectRatio) {
	defer o.wg.Done()

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			o.settle(epoch, dish, nil, err)
			return
		}
		defer o.sem.Release(1)
	}

	callCtx := ctx
	if o.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.GenerationTimeout)
		defer cancel()
	}

	img, err := o.generator.GenerateDishImage(callCtx, dish, style, aspect)
	if err == nil && (img == nil || len(img.Data) == 0) {
		err = fmt.Errorf("%w: 画像データが空です", domain.ErrGeneration)
	}
	o.settle(epoch, dish, img, err)
}

// settle は1品分の生成結果を反映します。epoch が古い結果は捨てます。
// 取り込みなどで既に Pending でなくなったスロットは上書きしません。
func (o *Orchestrator) settle(epoch uint64, dish domain.Dish, img *domain.ImageResponse, genErr error) {
	applied := o.dispatch(func(s *state) *Event {
		if s.epoch != epoch {
			return nil
		}
		s.outstanding--
		if s.outstanding <= 0 {
			s.outstanding = 0
			s.generating = false
		}

		if cur, ok := s.images[dish.Name]; ok && cur.Status == domain.SlotPending {
			if genErr != nil {
				s.images[dish.Name] = domain.FailedSlot(genErr.Error())
				s.errMsg = fmt.Sprintf(MsgGenerationFailedFormat, dish.Name)
			} else {
				s.images[dish.Name] = domain.ReadySlot(img.Data, mimeOr(img.MimeType, generatedMIMEType))
			}
		}
		return &Event{Kind: EventSlotUpdated, Dish: dish.Name}
	})

	switch {
	case !applied:
		slog.Debug("古い生成結果を破棄しました", "dish", dish.Name, "epoch", epoch)
	case genErr != nil:
		slog.Warn("画像生成に失敗しました", "dish", dish.Name, "epoch", epoch, "error", genErr)
	}
}

func mimeOr(mimeType, fallback string) string {
	if mimeType == "" {
		return fallback
	}
	return mimeType
}
