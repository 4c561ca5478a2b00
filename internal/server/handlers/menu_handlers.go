package handlers

import (
	"log/slog"
	"net/http"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"
)

type submitMenuRequest struct {
	MenuText string `json:"menu_text"`
}

type changeStyleRequest struct {
	Style string `json:"style"`
}

type changeAspectRequest struct {
	AspectRatio string `json:"aspect_ratio"`
}

// Healthz は死活監視用のエンドポイントです。
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListStyles はカタログのスタイル一覧と、選択可能なアスペクト比を返します。
func (h *Handler) ListStyles(w http.ResponseWriter, _ *http.Request) {
	styles := h.styles.Styles()
	out := make([]styleView, 0, len(styles))
	for _, s := range styles {
		out = append(out, styleView{ID: s.ID.String(), Label: s.Label, AspectRatio: s.AspectRatio})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"styles":        out,
		"aspect_ratios": domain.SupportedAspectRatios(),
	})
}

// GetState は現在のギャラリー状態を返します。
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}
	writeState(w, http.StatusOK, o.Snapshot())
}

// SubmitMenu はメニューテキストを解析し、画像生成を開始します。
// 生成の完了は待たずに 202 を返し、進捗は WebSocket か GetState で取得します。
func (h *Handler) SubmitMenu(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	var req submitMenuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := o.Submit(r.Context(), req.MenuText); err != nil {
		slog.WarnContext(r.Context(), "メニューの送信に失敗しました", "error", err)
		writeError(w, statusFor(err), userMessage(err, messageOr(o.Snapshot().Error, orchestrator.MsgParseFailed)))
		return
	}
	writeState(w, http.StatusAccepted, o.Snapshot())
}

// ChangeStyle はスタイルを切り替え、既存の料理を再生成します。
func (h *Handler) ChangeStyle(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	var req changeStyleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := o.ChangeStyle(domain.StyleID(req.Style)); err != nil {
		writeError(w, statusFor(err), userMessage(err, "could not change the style"))
		return
	}
	writeState(w, http.StatusAccepted, o.Snapshot())
}

// ChangeAspect はアスペクト比を切り替え、既存の料理を再生成します。
// 空文字はスタイルの既定値に戻す指定です。
func (h *Handler) ChangeAspect(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	var req changeAspectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := o.ChangeAspect(domain.AspectRatio(req.AspectRatio)); err != nil {
		writeError(w, statusFor(err), userMessage(err, "could not change the aspect ratio"))
		return
	}
	writeState(w, http.StatusAccepted, o.Snapshot())
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
