package style

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shouni/gemini-menu-studio/pkg/domain"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultCatalogYAML []byte

// basePromptFormat は全スタイル共通の前半部分です。料理名と説明を埋め込みます。
const basePromptFormat = "High-quality, realistic food photograph of the dish \"%s\", which is %s. "

// Template はスタイルごとのプロンプト後半とアスペクト比です。
type Template struct {
	AspectRatio string `yaml:"aspect_ratio" json:"aspect_ratio"`
	Prompt      string `yaml:"prompt" json:"-"`
}

// Style はカタログ上の1スタイルの定義です。
type Style struct {
	ID          domain.StyleID `yaml:"id" json:"id"`
	Label       string         `yaml:"label" json:"label"`
	AspectRatio string         `yaml:"aspect_ratio" json:"aspect_ratio,omitempty"`
	Prompt      string         `yaml:"prompt" json:"-"`
	UseFallback bool           `yaml:"use_fallback" json:"use_fallback"`
}

type catalogFile struct {
	Default  domain.StyleID `yaml:"default"`
	Fallback *Template      `yaml:"fallback"`
	Styles   []Style        `yaml:"styles"`
}

// Catalog はスタイルとプロンプトテンプレートの対応表です。
// 生成後は読み取り専用なので、複数のゴルーチンから共有できます。
type Catalog struct {
	defaultID domain.StyleID
	fallback  *Template
	styles    []Style
	index     map[domain.StyleID]int
}

// LoadDefault はバイナリに埋め込まれた既定カタログを読み込みます。
func LoadDefault() (*Catalog, error) {
	return Load(defaultCatalogYAML)
}

// LoadFile は YAML ファイルからカタログを読み込みます。
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("スタイルカタログの読み込みに失敗しました (path: %s): %w", path, err)
	}
	return Load(data)
}

// Load は YAML を解析し、検証済みのカタログを返します。
// テンプレートもフォールバック指定も持たないスタイルは設定エラーになります。
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("スタイルカタログの解析に失敗しました: %w", err)
	}

	c := &Catalog{
		defaultID: f.Default,
		fallback:  f.Fallback,
		styles:    f.Styles,
		index:     make(map[domain.StyleID]int, len(f.Styles)),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.styles) == 0 {
		return fmt.Errorf("スタイルが1つも定義されていません")
	}

	needsFallback := false
	var unmapped []string
	for i, s := range c.styles {
		if strings.TrimSpace(string(s.ID)) == "" {
			return fmt.Errorf("styles[%d]: id が空です", i)
		}
		if _, dup := c.index[s.ID]; dup {
			return fmt.Errorf("スタイル %q が重複しています", s.ID)
		}
		c.index[s.ID] = i

		hasTemplate := strings.TrimSpace(s.Prompt) != ""
		switch {
		case hasTemplate && s.UseFallback:
			return fmt.Errorf("スタイル %q にテンプレートと use_fallback が両方指定されています", s.ID)
		case hasTemplate:
			if !domain.AspectRatio(s.AspectRatio).Valid() {
				return fmt.Errorf("スタイル %q のアスペクト比 %q は未対応です", s.ID, s.AspectRatio)
			}
		case s.UseFallback:
			needsFallback = true
		default:
			unmapped = append(unmapped, string(s.ID))
		}
	}

	if len(unmapped) > 0 {
		return fmt.Errorf("プロンプトが未定義のスタイルがあります (use_fallback も未指定): %s", strings.Join(unmapped, ", "))
	}

	if needsFallback {
		if c.fallback == nil || strings.TrimSpace(c.fallback.Prompt) == "" {
			return fmt.Errorf("use_fallback のスタイルがあるのに fallback エントリが定義されていません")
		}
		if !domain.AspectRatio(c.fallback.AspectRatio).Valid() {
			return fmt.Errorf("fallback のアスペクト比 %q は未対応です", c.fallback.AspectRatio)
		}
	}

	if c.defaultID == "" {
		c.defaultID = c.styles[0].ID
	}
	if _, ok := c.index[c.defaultID]; !ok {
		return fmt.Errorf("既定スタイル %q がカタログにありません", c.defaultID)
	}
	return nil
}

// Default は既定のスタイルIDを返します。
func (c *Catalog) Default() domain.StyleID {
	return c.defaultID
}

// Has はスタイルIDがカタログに存在するかを返します。
func (c *Catalog) Has(id domain.StyleID) bool {
	_, ok := c.index[id]
	return ok
}

// Styles は定義順のスタイル一覧のコピーを返します。
func (c *Catalog) Styles() []Style {
	out := make([]Style, len(c.styles))
	copy(out, c.styles)
	for i := range out {
		if out[i].UseFallback {
			out[i].AspectRatio = c.fallback.AspectRatio
		}
	}
	return out
}

// Resolve はスタイルに対応するテンプレートを返します。
// use_fallback のスタイルは fallback エントリに解決されます。
func (c *Catalog) Resolve(id domain.StyleID) (Template, error) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: 未知のスタイルです: %q", domain.ErrValidation, id)
	}
	s := c.styles[i]
	if s.UseFallback {
		return *c.fallback, nil
	}
	return Template{AspectRatio: s.AspectRatio, Prompt: s.Prompt}, nil
}

// Prompt は料理とスタイルから決定的なプロンプトとアスペクト比を組み立てます。
func (c *Catalog) Prompt(dish domain.Dish, id domain.StyleID) (string, string, error) {
	tmpl, err := c.Resolve(id)
	if err != nil {
		return "", "", err
	}
	prompt := fmt.Sprintf(basePromptFormat, dish.Name, dish.Description) + tmpl.Prompt
	return prompt, tmpl.AspectRatio, nil
}
