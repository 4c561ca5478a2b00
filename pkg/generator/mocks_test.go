package generator

import (
	"context"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"google.golang.org/genai"
)

// --- Mocks ---

type mockContentModel struct {
	lastModel  string
	lastPrompt string
	lastConfig *genai.GenerateContentConfig
	text       string
	err        error

	generateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockContentModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		m.lastPrompt = contents[0].Parts[0].Text
	}
	if m.generateContentFunc != nil {
		return m.generateContentFunc(ctx, model, contents, config)
	}
	if m.err != nil {
		return nil, m.err
	}
	return textResponse(m.text), nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

type mockImageModel struct {
	lastPrompt string
	lastConfig *genai.GenerateImagesConfig
	images     [][]byte
	err        error
}

func (m *mockImageModel) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	m.lastPrompt = prompt
	m.lastConfig = config
	if m.err != nil {
		return nil, m.err
	}
	resp := &genai.GenerateImagesResponse{}
	for _, img := range m.images {
		resp.GeneratedImages = append(resp.GeneratedImages, &genai.GeneratedImage{
			Image: &genai.Image{ImageBytes: img, MIMEType: "image/jpeg"},
		})
	}
	return resp, nil
}

type stubPrompts struct {
	aspect string
	err    error
}

func (s stubPrompts) Prompt(dish domain.Dish, id domain.StyleID) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return dish.Name + " / " + string(id), s.aspect, nil
}

func imageResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}
