package handlers

import (
	"fmt"
	"net/http"

	"github.com/shouni/gemini-menu-studio/internal/server/session"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"
	"github.com/shouni/gemini-menu-studio/pkg/style"

	"github.com/gorilla/websocket"
)

// SessionCookieName はブラウザセッションIDを保持する Cookie 名です。
const SessionCookieName = "menu_studio_session"

// StyleLister は画面に提示するスタイル一覧を返します。*style.Catalog が満たします。
type StyleLister interface {
	Styles() []style.Style
}

// Handler は JSON API と WebSocket のハンドラー群です。
type Handler struct {
	sessions     *session.Registry
	styles       StyleLister
	secureCookie bool
	upgrader     websocket.Upgrader
}

// NewHandler は依存関係を検証して Handler を初期化します。
func NewHandler(sessions *session.Registry, styles StyleLister, secureCookie bool) (*Handler, error) {
	if sessions == nil {
		return nil, fmt.Errorf("sessions (Registry) is required")
	}
	if styles == nil {
		return nil, fmt.Errorf("styles (StyleLister) is required")
	}
	return &Handler{
		sessions:     sessions,
		styles:       styles,
		secureCookie: secureCookie,
		upgrader:     websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}, nil
}

// resolveSession は Cookie のセッションを返します。存在しなければ新しく作成し、
// 発行すべき Cookie を併せて返します。
func (h *Handler) resolveSession(r *http.Request) (*orchestrator.Orchestrator, *http.Cookie, error) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if o, ok := h.sessions.Get(c.Value); ok {
			return o, nil, nil
		}
	}

	id, o, err := h.sessions.Create()
	if err != nil {
		return nil, nil, err
	}
	return o, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// session は resolveSession の結果の Cookie をレスポンスに設定します。
// 失敗時はエラーレスポンスを書き込み、nil を返します。
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *orchestrator.Orchestrator {
	o, cookie, err := h.resolveSession(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not start a session")
		return nil
	}
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return o
}
