package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"

	"github.com/go-chi/chi/v5"
)

type requestEditRequest struct {
	Dish string `json:"dish"`
	Mode string `json:"mode"`
}

type applyEditRequest struct {
	Prompt string `json:"prompt"`
}

type importImageRequest struct {
	URL string `json:"url"`
}

// RequestEdit は Ready の料理について編集セッションを開きます。
func (h *Handler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	var req requestEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !o.RequestEdit(req.Dish, domain.EditMode(req.Mode)) {
		writeError(w, http.StatusConflict, "the image for this dish is not ready for editing")
		return
	}
	writeState(w, http.StatusOK, o.Snapshot())
}

// ApplyEdit は開いている編集セッションに指示文を適用します。編集の完了まで待ちます。
func (h *Handler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	var req applyEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := o.ApplyEdit(r.Context(), req.Prompt); err != nil {
		slog.WarnContext(r.Context(), "編集の適用に失敗しました", "error", err)
		writeError(w, statusFor(err), userMessage(err, orchestrator.MsgEditFailed))
		return
	}
	writeState(w, http.StatusOK, o.Snapshot())
}

// CloseEdit は編集セッションを破棄します。
func (h *Handler) CloseEdit(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}
	o.CloseEdit()
	writeState(w, http.StatusOK, o.Snapshot())
}

// ImportImage は既存の写真を URL から料理のスロットに取り込みます。
func (h *Handler) ImportImage(w http.ResponseWriter, r *http.Request) {
	o := h.session(w, r)
	if o == nil {
		return
	}

	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.TrimSpace(name)
	var req importImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := o.ImportImage(r.Context(), name, strings.TrimSpace(req.URL)); err != nil {
		writeError(w, statusFor(err), userMessage(err, "could not import the image"))
		return
	}
	writeState(w, http.StatusOK, o.Snapshot())
}
