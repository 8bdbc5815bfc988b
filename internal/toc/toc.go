// Package toc builds markdown tables of contents from heading structure and
// splices them into documents between <!-- toc --> markers.
package toc

import (
	"fmt"

	"github.com/pfassina/mdtoc/internal/markdown"
)

// Tokenizer produces the ordered token stream headings are selected from.
type Tokenizer interface {
	Tokenize(content []byte) ([]markdown.Token, error)
}

// Result is a generated table of contents.
type Result struct {
	Content string  `json:"content" yaml:"content"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Highest int     `json:"highest" yaml:"highest"`
}

// Engine ties a tokenizer to a set of options. It holds no state between
// calls and is safe for concurrent use when its tokenizer is.
type Engine struct {
	tokenizer Tokenizer
	opts      Options
}

func New(tokenizer Tokenizer, opts Options) *Engine {
	return &Engine{tokenizer: tokenizer, opts: opts}
}

var defaultTokenizer = markdown.NewTokenizer()

// Generate renders the TOC of a markdown document with the goldmark tokenizer.
func Generate(content string, opts Options) (Result, error) {
	return New(defaultTokenizer, opts).Generate(content)
}

// Generate renders the TOC of content. A leading front matter block is
// never scanned for headings.
func (e *Engine) Generate(content string) (Result, error) {
	_, body := markdown.SplitFrontMatter([]byte(content))
	return e.generate(body)
}

func (e *Engine) generate(body []byte) (Result, error) {
	tokens, err := e.tokenizer.Tokenize(body)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize: %w", err)
	}

	ex := Extract(tokens, e.opts)
	kept := make(map[int]int, len(ex.Entries))
	for i, entry := range ex.Entries {
		kept[entry.Order] = i
	}
	entries := make([]Entry, len(ex.Entries))
	slugs := newSlugger(e.opts)
	for _, entry := range ex.Counted {
		i, ok := kept[entry.Order]
		if ok {
			entry = ex.Entries[i]
		}
		got, err := slugs.next(entry)
		if err != nil {
			return Result{}, err
		}
		if ok {
			entries[i] = got
		}
	}

	out, err := Render(entries, e.opts)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Content: out.Content,
		Entries: entries,
		Highest: out.Highest,
	}, nil
}
