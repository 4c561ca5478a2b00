package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// initializeGenAIModels はメニュー解析・Imagen 生成・画像編集に使う genai のモデル API を初期化します。
func initializeGenAIModels(ctx context.Context, apiKey string) (*genai.Models, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}

// buildRemoteIO は gs:// の読み込みに使う GCS ベースの I/O を初期化します。
func buildRemoteIO(ctx context.Context) (remoteio.IOFactory, remoteio.InputReader, error) {
	factory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCS factory: %w", err)
	}
	r, err := factory.InputReader()
	if err != nil {
		_ = factory.Close()
		return nil, nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	return factory, r, nil
}
