package domain

import "errors"

var (
	// ErrValidation は入力値の検証エラーです（空のメニューなど）。
	ErrValidation = errors.New("validation error")
	// ErrParse はメニュー解析レスポンスが不正または期待する形でない場合のエラーです。
	ErrParse = errors.New("parse error")
	// ErrGeneration は画像生成で画像が1枚も返らなかった場合のエラーです。
	ErrGeneration = errors.New("generation error")
	// ErrEdit は編集レスポンスに画像パーツが含まれていなかった場合のエラーです。
	ErrEdit = errors.New("edit error")
	// ErrNoEditSession は編集セッションが開かれていない状態での操作です。
	ErrNoEditSession = errors.New("no edit session is open")
	// ErrEditInProgress は同じセッションで編集が実行中の場合のエラーです。
	ErrEditInProgress = errors.New("edit already in progress")
	// ErrUnsafeURL は SSRF の可能性がある URL を拒否した場合のエラーです。
	ErrUnsafeURL = errors.New("unsafe url")
)
