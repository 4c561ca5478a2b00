package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockParser struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, menuText string) ([]domain.Dish, error)
}

func (m *mockParser) ParseMenu(ctx context.Context, menuText string) ([]domain.Dish, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fn(ctx, menuText)
}

func (m *mockParser) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type generateCall struct {
	Dish   domain.Dish
	Style  domain.StyleID
	Aspect domain.AspectRatio
}

type mockGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	fn    func(ctx context.Context, dish domain.Dish, style domain.StyleID) (*domain.ImageResponse, error)
}

func (m *mockGenerator) GenerateDishImage(ctx context.Context, dish domain.Dish, style domain.StyleID, aspect domain.AspectRatio) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, generateCall{Dish: dish, Style: style, Aspect: aspect})
	m.mu.Unlock()
	return m.fn(ctx, dish, style)
}

func (m *mockGenerator) Calls() []generateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generateCall(nil), m.calls...)
}

type mockEditor struct {
	mu       sync.Mutex
	requests []domain.ImageEditRequest
	fn       func(ctx context.Context, req domain.ImageEditRequest) (*domain.ImageResponse, error)
}

func (m *mockEditor) EditImage(ctx context.Context, req domain.ImageEditRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.fn(ctx, req)
}

func (m *mockEditor) Requests() []domain.ImageEditRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ImageEditRequest(nil), m.requests...)
}

type mockLoader struct {
	fn func(ctx context.Context, rawURL string) (*domain.ImageResponse, error)
}

func (m *mockLoader) Load(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	return m.fn(ctx, rawURL)
}

type stubStyles struct{}

func (stubStyles) Has(id domain.StyleID) bool {
	switch id {
	case "bright-modern", "rustic-dark", "social-flat-lay":
		return true
	}
	return false
}

func (stubStyles) Default() domain.StyleID { return "bright-modern" }

// --- Helpers ---

var testDishes = []domain.Dish{
	{Name: "Margherita", Description: "tomato, mozzarella, basil"},
	{Name: "Tiramisu", Description: "coffee-soaked ladyfingers"},
	{Name: "Espresso", Description: "short black coffee"},
}

func parserReturning(dishes []domain.Dish) *mockParser {
	return &mockParser{fn: func(context.Context, string) ([]domain.Dish, error) {
		return dishes, nil
	}}
}

// generatorByStyle は「スタイル名:料理名」をバイト列にした JPEG 扱いの画像を返します。
func generatorByStyle() *mockGenerator {
	return &mockGenerator{fn: func(_ context.Context, dish domain.Dish, style domain.StyleID) (*domain.ImageResponse, error) {
		return &domain.ImageResponse{Data: []byte(string(style) + ":" + dish.Name), MimeType: "image/jpeg"}, nil
	}}
}

func editorReturning(data string) *mockEditor {
	return &mockEditor{fn: func(context.Context, domain.ImageEditRequest) (*domain.ImageResponse, error) {
		return &domain.ImageResponse{Data: []byte(data), MimeType: "image/png"}, nil
	}}
}

func newTestOrchestrator(t *testing.T, deps Deps, cfg Config) *Orchestrator {
	t.Helper()
	if deps.Parser == nil {
		deps.Parser = parserReturning(testDishes)
	}
	if deps.Generator == nil {
		deps.Generator = generatorByStyle()
	}
	if deps.Editor == nil {
		deps.Editor = editorReturning("edited")
	}
	if deps.Styles == nil {
		deps.Styles = stubStyles{}
	}
	o, err := New(deps, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		o.Close()
		o.Wait()
	})
	return o
}

func dishNames(dishes []domain.Dish) []string {
	names := make([]string, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.Name)
	}
	return names
}

func imageKeys(images map[string]domain.ImageSlot) []string {
	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	return keys
}
