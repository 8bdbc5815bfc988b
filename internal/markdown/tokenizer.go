package markdown

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// TokenKind identifies what a Token was produced from.
type TokenKind int

const (
	TokenHeading TokenKind = iota + 1
	TokenHTML
)

func (k TokenKind) String() string {
	switch k {
	case TokenHeading:
		return "heading"
	case TokenHTML:
		return "html"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a block of interest in document order.
type Token struct {
	Kind      TokenKind
	Level     int    // heading level 1-6, 0 for html
	Content   string // raw source text, heading markers removed
	StartLine int    // 1-based
	EndLine   int    // 1-based, inclusive
	Index     int    // position in the stream
}

// Tokenizer wraps goldmark and flattens its AST into the tokens the TOC
// engine consumes. Code blocks never produce heading tokens.
type Tokenizer struct {
	md goldmark.Markdown
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Tokenize parses content and returns its headings and HTML fragments.
func (t *Tokenizer) Tokenize(content []byte) ([]Token, error) {
	doc := t.md.Parser().Parse(text.NewReader(content))
	lines := NewLineIndex(content)

	var tokens []Token
	emit := func(tok Token) {
		tok.Index = len(tokens)
		tokens = append(tokens, tok)
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			segs := node.Lines()
			if segs.Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			start, end := lines.span(segs.At(0), segs.At(segs.Len()-1))
			emit(Token{
				Kind:      TokenHeading,
				Level:     node.Level,
				Content:   headingSource(segs, content),
				StartLine: start,
				EndLine:   end,
			})
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			segs := htmlBlockSegments(node)
			if len(segs) == 0 {
				return ast.WalkSkipChildren, nil
			}
			var buf bytes.Buffer
			for _, seg := range segs {
				buf.Write(seg.Value(content))
			}
			start, end := lines.span(segs[0], segs[len(segs)-1])
			emit(Token{
				Kind:      TokenHTML,
				Content:   buf.String(),
				StartLine: start,
				EndLine:   end,
			})
			return ast.WalkSkipChildren, nil

		case *ast.RawHTML:
			segs := node.Segments
			if segs == nil || segs.Len() == 0 {
				return ast.WalkContinue, nil
			}
			var buf bytes.Buffer
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				buf.Write(seg.Value(content))
			}
			start, end := lines.span(segs.At(0), segs.At(segs.Len()-1))
			emit(Token{
				Kind:      TokenHTML,
				Content:   buf.String(),
				StartLine: start,
				EndLine:   end,
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return tokens, nil
}

// htmlBlockSegments returns the block lines followed by its closure line,
// when the closure was recorded separately.
func htmlBlockSegments(node *ast.HTMLBlock) []text.Segment {
	lines := node.Lines()
	segs := make([]text.Segment, 0, lines.Len()+1)
	for i := 0; i < lines.Len(); i++ {
		segs = append(segs, lines.At(i))
	}
	if node.HasClosure() {
		if len(segs) == 0 || node.ClosureLine.Start >= segs[len(segs)-1].Stop {
			segs = append(segs, node.ClosureLine)
		}
	}
	return segs
}

// HeadingText is the content Tokenize reports for a heading node.
func HeadingText(node *ast.Heading, source []byte) string {
	return headingSource(node.Lines(), source)
}

// headingSource joins the raw source lines of a heading. Setext headings
// span several lines; they are joined with a single space.
func headingSource(segs *text.Segments, content []byte) string {
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := bytes.TrimSpace(seg.Value(content))
		if len(line) == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.Write(line)
	}
	return buf.String()
}

// LineIndex maps between byte offsets and 1-based line numbers.
type LineIndex struct {
	starts []int
	size   int
}

func NewLineIndex(content []byte) LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return LineIndex{starts: starts, size: len(content)}
}

// Line returns the line holding offset.
func (li LineIndex) Line(offset int) int {
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
}

// Range returns the byte range of lines first through last, the final
// newline included. Lines are clamped to the content.
func (li LineIndex) Range(first, last int) (int, int) {
	first = min(max(first, 1), len(li.starts))
	if last < first {
		last = first
	}
	end := li.size
	if last < len(li.starts) {
		end = li.starts[last]
	}
	return li.starts[first-1], end
}

// span returns the first line of first and the last line of last.
func (li LineIndex) span(first, last text.Segment) (int, int) {
	end := last.Stop - 1
	if end < last.Start {
		end = last.Start
	}
	return li.Line(first.Start), li.Line(end)
}
