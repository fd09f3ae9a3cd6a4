package services

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer превращает тело документа в отображаемую разметку.
//
// Два режима:
//   - готовый HTML (основной путь в проде) — отдаётся как есть. Это явная
//     граница доверия: контент пишут только администраторы, санитизации нет,
//     и добавлять её молча нельзя — сломает намеренно встроенную разметку;
//   - markdown (legacy) — goldmark с GFM (таблицы, зачёркивание), сырым HTML,
//     подсветкой fenced-блоков по языку и ординальными id заголовков.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(4),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&headingOrdinalIDs{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // сырой HTML внутри markdown пропускается как есть
		),
	)
	return &Renderer{md: md}
}

// Render выбирает режим по содержимому: тело, начинающееся с HTML-тега,
// считается готовым HTML.
func (r *Renderer) Render(content string) (string, error) {
	if IsHTMLContent(content) {
		return content, nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsHTMLContent — эвристика режима: первый непробельный символ открывает тег.
func IsHTMLContent(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "<")
}

// headingOrdinalIDs назначает заголовкам id heading-{n} одним проходом по AST
// в порядке документа — тем же ординальным правилом, что и ExtractTOC.
// Поиск id по тексту заголовка не используется: при повторяющихся заголовках
// он вешает чужой id не на тот элемент.
type headingOrdinalIDs struct{}

func (t *headingOrdinalIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	n := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := node.(*ast.Heading); ok && entering {
			h.SetAttributeString("id", []byte(fmt.Sprintf("heading-%d", n)))
			n++
		}
		return ast.WalkContinue, nil
	})
}
