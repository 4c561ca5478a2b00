package server

import (
	"context"
	"errors"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"
)

type mockParser struct{}

func (mockParser) ParseMenu(_ context.Context, menuText string) ([]domain.Dish, error) {
	if strings.Contains(menuText, "garbage") {
		return nil, domain.ErrParse
	}
	return []domain.Dish{
		{Name: "Margherita", Description: "tomato and mozzarella"},
		{Name: "Caesar Salad", Description: "romaine, croutons, parmesan"},
	}, nil
}

type mockGenerator struct{}

func (mockGenerator) GenerateDishImage(_ context.Context, dish domain.Dish, style domain.StyleID, aspect domain.AspectRatio) (*domain.ImageResponse, error) {
	return &domain.ImageResponse{Data: []byte(string(style) + ":" + aspect.String() + ":" + dish.Name), MimeType: "image/jpeg"}, nil
}

type mockEditor struct{}

func (mockEditor) EditImage(_ context.Context, req domain.ImageEditRequest) (*domain.ImageResponse, error) {
	if strings.Contains(req.Instruction, "explode") {
		return nil, domain.ErrEdit
	}
	return &domain.ImageResponse{Data: []byte("edited"), MimeType: "image/png"}, nil
}

type mockLoader struct{}

func (mockLoader) Load(_ context.Context, rawURL string) (*domain.ImageResponse, error) {
	if strings.Contains(rawURL, "127.0.0.1") {
		return nil, domain.ErrUnsafeURL
	}
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	return &domain.ImageResponse{Data: []byte("imported"), MimeType: "image/png"}, nil
}
