// Package preview renders a document with its regenerated TOC, either for
// the terminal or as a standalone HTML page.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/pfassina/mdtoc/internal/markdown"
	"github.com/pfassina/mdtoc/internal/toc"
)

type Renderer struct {
	engine *toc.Engine
	md     goldmark.Markdown
	log    *zap.Logger
}

func New(engine *toc.Engine, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		engine: engine,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		log:    log,
	}
}

// Terminal renders content as insert would leave it, styled by glamour.
// Front matter is not shown.
func (r *Renderer) Terminal(content, style string, width int) (string, error) {
	updated, err := r.engine.Insert(content)
	if err != nil {
		return "", err
	}
	_, body := markdown.SplitFrontMatter([]byte(updated))

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := tr.Render(string(body))
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}

type page struct {
	Title string
	TOC   template.HTML
	Body  template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { display: flex; margin: 0; font-family: sans-serif; line-height: 1.5; }
nav { position: sticky; top: 0; align-self: flex-start; width: 18rem; max-height: 100vh; overflow-y: auto; padding: 1rem; border-right: 1px solid #ddd; }
nav ul { padding-left: 1rem; }
main { max-width: 48rem; padding: 1rem 2rem; }
</style>
</head>
<body>
<nav>
{{.TOC}}
</nav>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// HTML writes a standalone page with the TOC in a sidebar. Heading ids in
// the body match the TOC anchors.
func (r *Renderer) HTML(w io.Writer, content string) error {
	src := []byte(content)
	res, err := r.engine.Generate(content)
	if err != nil {
		return err
	}

	var tocHTML bytes.Buffer
	if err := r.md.Convert([]byte(res.Content), &tocHTML); err != nil {
		return fmt.Errorf("render toc: %w", err)
	}

	_, body := markdown.SplitFrontMatter(src)
	doc := r.md.Parser().Parse(text.NewReader(body))
	if err := setHeadingIDs(doc, body, res.Entries); err != nil {
		return err
	}
	var bodyHTML bytes.Buffer
	if err := r.md.Renderer().Render(&bodyHTML, body, doc); err != nil {
		return fmt.Errorf("render body: %w", err)
	}

	p := page{
		Title: r.title(src, doc, body),
		TOC:   template.HTML(tocHTML.String()),
		Body:  template.HTML(bodyHTML.String()),
	}
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// setHeadingIDs gives every heading with a TOC entry the entry's slug as
// its id. Headings are counted the same way the tokenizer emits them.
func setHeadingIDs(doc ast.Node, source []byte, entries []toc.Entry) error {
	ids := make(map[int]string, len(entries))
	for _, e := range entries {
		ids[e.Order] = e.Slug
	}

	order := 0
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 || strings.TrimSpace(markdown.HeadingText(h, source)) == "" {
			return ast.WalkSkipChildren, nil
		}
		if slug, ok := ids[order]; ok {
			h.SetAttributeString("id", []byte(slug))
		}
		order++
		return ast.WalkSkipChildren, nil
	})
}

type pageMeta struct {
	Title string `yaml:"title" toml:"title"`
}

// title prefers the front matter title, then the first H1 of the body.
func (r *Renderer) title(src []byte, doc ast.Node, body []byte) string {
	var meta pageMeta
	if _, err := frontmatter.Parse(bytes.NewReader(src), &meta); err != nil {
		r.log.Debug("front matter unreadable", zap.Error(err))
	}
	if t := strings.TrimSpace(meta.Title); t != "" {
		return t
	}

	title := "Document"
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		if h.Level == 1 && h.Lines().Len() > 0 {
			if t := strings.Join(strings.Fields(markdown.HeadingText(h, body)), " "); t != "" {
				title = t
				return ast.WalkStop, nil
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return title
}
