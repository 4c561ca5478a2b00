package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"google.golang.org/genai"
)

const menuParsePromptFormat = "Parse the following restaurant menu into a list of dishes with their names and descriptions. " +
	"Include only the entries that are clearly dishes or drinks. Menu:\n\n%s"

const menuParseTemperature = float32(0.2)

// menuSchema は構造化出力で要求するスキーマです（name と description を必須とする配列）。
var menuSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        genai.TypeString,
				Description: "The name of the dish.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A brief description of the dish.",
			},
		},
		Required: []string{"name", "description"},
	},
}

// GeminiMenuParser はメニューテキストを料理リストに変換するクライアントです。
type GeminiMenuParser struct {
	model ContentModel
	name  string
}

// NewGeminiMenuParser は依存関係を検証して GeminiMenuParser を生成します。
func NewGeminiMenuParser(model ContentModel, modelName string) (*GeminiMenuParser, error) {
	if model == nil {
		return nil, fmt.Errorf("model (ContentModel) is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("modelName is required")
	}
	return &GeminiMenuParser{model: model, name: modelName}, nil
}

// ParseMenu はメニューを解析し、出現順の料理リストを返します。
// レスポンスが JSON として不正、または要素に name / description が欠けている場合は
// 部分的に救済せず、全体を domain.ErrParse として拒否します。
func (p *GeminiMenuParser) ParseMenu(ctx context.Context, menuText string) ([]domain.Dish, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: fmt.Sprintf(menuParsePromptFormat, menuText)}},
	}}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(menuParseTemperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   menuSchema,
	}

	resp, err := p.model.GenerateContent(ctx, p.name, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("メニュー解析リクエストに失敗しました: %w", err)
	}

	raw := responseText(resp)
	dishes, err := decodeDishes(raw)
	if err != nil {
		slog.WarnContext(ctx, "メニュー解析レスポンスを受理できませんでした", "error", err, "response", raw)
		return nil, err
	}
	return dishes, nil
}

// rawDish はキーの有無を区別するためにポインタで受けます。
type rawDish struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func decodeDishes(raw string) ([]domain.Dish, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: 空のレスポンスです", domain.ErrParse)
	}

	var items []rawDish
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: 料理の配列として解析できません: %v", domain.ErrParse, err)
	}
	// null は配列ではない
	if items == nil {
		return nil, fmt.Errorf("%w: 配列ではなく null が返されました", domain.ErrParse)
	}

	dishes := make([]domain.Dish, 0, len(items))
	for i, item := range items {
		if item.Name == nil || item.Description == nil {
			return nil, fmt.Errorf("%w: items[%d] に name または description がありません", domain.ErrParse, i)
		}
		name := strings.TrimSpace(*item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: items[%d] の name が空です", domain.ErrParse, i)
		}
		dishes = append(dishes, domain.Dish{
			Name:        name,
			Description: strings.TrimSpace(*item.Description),
		})
	}
	return dishes, nil
}

// responseText は最初の候補のテキストパーツを連結して返します。
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
