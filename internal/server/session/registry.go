package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Factory はセッション1つ分の Orchestrator を生成します。
type Factory func() (*orchestrator.Orchestrator, error)

// Registry はブラウザセッションIDと Orchestrator の対応を管理します。
// 一定時間アクセスのないセッションは期限切れとなり、その Orchestrator は Close されます。
type Registry struct {
	items   *cache.Cache
	factory Factory
	ttl     time.Duration
}

// NewRegistry は TTL 付きのセッションレジストリを生成します。
func NewRegistry(factory Factory, ttl time.Duration) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}

	items := cache.New(ttl, ttl/2)
	items.OnEvicted(func(id string, v any) {
		if o, ok := v.(*orchestrator.Orchestrator); ok {
			slog.Info("セッションを破棄します", "session_id", id)
			o.Close()
		}
	})
	return &Registry{items: items, factory: factory, ttl: ttl}, nil
}

// Get はセッションの Orchestrator を返し、有効期限を延長します。
func (r *Registry) Get(id string) (*orchestrator.Orchestrator, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.items.Get(id)
	if !ok {
		return nil, false
	}
	o, ok := v.(*orchestrator.Orchestrator)
	if !ok {
		return nil, false
	}
	// Set は OnEvicted を呼ばずに期限だけを更新する
	r.items.Set(id, o, r.ttl)
	// Get と Set の間に期限切れで閉じられていたら、書き戻した項目を取り除く
	if o.IsClosed() {
		r.items.Delete(id)
		return nil, false
	}
	return o, true
}

// Create は新しいセッションを作成し、そのIDと Orchestrator を返します。
func (r *Registry) Create() (string, *orchestrator.Orchestrator, error) {
	o, err := r.factory()
	if err != nil {
		return "", nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	id := uuid.NewString()
	r.items.Set(id, o, r.ttl)
	slog.Info("セッションを作成しました", "session_id", id)
	return id, o, nil
}

// Delete はセッションを即座に破棄します。
func (r *Registry) Delete(id string) {
	r.items.Delete(id)
}

// Len は有効なセッション数を返します。
func (r *Registry) Len() int {
	return r.items.ItemCount()
}

// Close はすべてのセッションを破棄します。
func (r *Registry) Close() {
	for id := range r.items.Items() {
		r.items.Delete(id)
	}
}
