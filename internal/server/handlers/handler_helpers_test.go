package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrUnsafeURL, http.StatusBadRequest},
		{fmt.Errorf("メニュー解析エラー: %w", domain.ErrParse), http.StatusUnprocessableEntity},
		{domain.ErrNoEditSession, http.StatusConflict},
		{domain.ErrEditInProgress, http.StatusConflict},
		{orchestrator.ErrSuperseded, http.StatusConflict},
		{orchestrator.ErrClosed, http.StatusGone},
		{domain.ErrEdit, http.StatusBadGateway},
		{errors.New("upstream 503"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("外部APIの生のエラーは表示しないのだ", func(t *testing.T) {
		msg := userMessage(errors.New("googleapi: Error 500: secret detail"), "could not apply the edit")
		assert.Equal(t, "could not apply the edit", msg)
	})

	t.Run("検証エラーは内容を返す", func(t *testing.T) {
		msg := userMessage(fmt.Errorf("%w: menu must not be empty", domain.ErrValidation), "x")
		assert.Contains(t, msg, "menu must not be empty")
	})
}

func TestNewStateView(t *testing.T) {
	snap := orchestrator.Snapshot{
		Style:  "rustic-dark",
		Aspect: "3:4",
		Images: map[string]domain.ImageSlot{
			"Soup":  domain.ReadySlot([]byte{1, 2, 3}, "image/jpeg"),
			"Bread": domain.PendingSlot(),
			"Cake":  domain.FailedSlot("quota"),
		},
		Edit: &domain.EditSession{Dish: domain.Dish{Name: "Soup"}, Mode: domain.EditBackground, Err: "boom"},
	}

	v := newStateView(snap)
	assert.Equal(t, "rustic-dark", v.Style)
	assert.Equal(t, "3:4", v.AspectRatio)
	assert.NotNil(t, v.Dishes, "料理が空でも JSON では [] にする")
	assert.True(t, strings.HasPrefix(v.Images["Soup"].URL, "data:image/jpeg;base64,"))
	assert.Equal(t, "pending", v.Images["Bread"].Status)
	assert.Empty(t, v.Images["Bread"].URL)
	assert.Equal(t, "failed", v.Images["Cake"].Status)
	assert.Equal(t, "background", v.Edit.Mode)
	assert.Equal(t, "boom", v.Edit.Error)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "nope")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"nope"}`, rec.Body.String())
}
