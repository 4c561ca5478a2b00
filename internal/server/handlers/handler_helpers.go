package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"
)

// maxBodyBytes はリクエストボディの上限です。メニュー全文が収まる程度にしています。
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func writeState(w http.ResponseWriter, status int, snap orchestrator.Snapshot) {
	writeJSON(w, status, map[string]any{
		"success": true,
		"state":   newStateView(snap),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusFor はドメインエラーを HTTP ステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsafeURL):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoEditSession),
		errors.Is(err, domain.ErrEditInProgress),
		errors.Is(err, orchestrator.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, orchestrator.ErrClosed):
		return http.StatusGone
	default:
		return http.StatusBadGateway
	}
}

// userMessage は画面に出してよい文言を返します。
// 外部 API の生のエラーは返さず、状態に載った利用者向けメッセージを優先します。
func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrNoEditSession):
		return "no edit session is open"
	case errors.Is(err, domain.ErrEditInProgress):
		return "an edit is already being applied"
	case errors.Is(err, orchestrator.ErrSuperseded):
		return "a newer request replaced this one"
	case errors.Is(err, orchestrator.ErrClosed):
		return "the session has expired; reload the page"
	case errors.Is(err, domain.ErrUnsafeURL):
		return "the image URL is not allowed"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	}
	return fallback
}
