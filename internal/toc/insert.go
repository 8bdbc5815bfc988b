package toc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pfassina/mdtoc/internal/markdown"
)

// StopMarker closes a TOC that was opened without one.
const StopMarker = "<!-- tocstop -->"

// HasMarker reports whether content has a start marker outside its front
// matter and code blocks.
func HasMarker(content string) (bool, error) {
	return New(defaultTokenizer, Options{}).HasMarker(content)
}

func (e *Engine) HasMarker(content string) (bool, error) {
	_, body := markdown.SplitFrontMatter([]byte(content))
	open, _, err := e.markers(body)
	return open != nil, err
}

// Insert splices a TOC into content with the goldmark tokenizer.
func Insert(content string, opts Options) (string, error) {
	return New(defaultTokenizer, opts).Insert(content)
}

// Insert regenerates the TOC between the start and stop markers of content.
// The TOC is built from the text after the markers only, so running Insert
// on its own output changes nothing. A missing stop marker is added; a
// document without a start marker is returned unchanged. Sections are
// joined with the line ending the document already uses.
func (e *Engine) Insert(content string) (string, error) {
	fm, rawBody := markdown.SplitFrontMatter([]byte(content))
	loc, stop, err := e.markers(rawBody)
	if err != nil {
		return "", err
	}
	if loc == nil {
		return content, nil
	}
	body := string(rawBody)

	nl := "\n"
	if strings.Contains(body, "\r\n") {
		nl = "\r\n"
	}

	lead := leadingBlankLines(body)
	before := trimBlankLines(body[len(lead):loc[0]])
	open := body[loc[0]:loc[1]]
	closing := StopMarker

	after := body[loc[1]:]
	if stop != nil {
		closing = body[stop[0]:stop[1]]
		after = body[stop[1]:]
	}
	after = trimBlankLines(after)

	list := ""
	if e.opts.TOC != nil {
		list = *e.opts.TOC
	} else {
		res, err := e.generate([]byte(after))
		if err != nil {
			return "", err
		}
		list = res.Content
	}

	block := open + nl + nl
	if list = strings.TrimSpace(list); list != "" {
		if nl != "\n" {
			list = strings.ReplaceAll(strings.ReplaceAll(list, "\r\n", "\n"), "\n", nl)
		}
		block += list + nl + nl
	}
	block += closing

	sections := make([]string, 0, 3)
	if before != "" {
		sections = append(sections, before)
	}
	sections = append(sections, block)
	if after != "" {
		sections = append(sections, after)
	}

	var b strings.Builder
	b.Write(fm.Raw)
	b.WriteString(lead)
	b.WriteString(strings.Join(sections, nl+nl))
	b.WriteString(trailingNewlines(content))
	return b.String(), nil
}

// markers returns the byte ranges of the first start marker in body and of
// the first stop marker after it. Only HTML blocks and inline HTML are
// searched, so markers quoted in code are ignored.
func (e *Engine) markers(body []byte) (open, stop []int, err error) {
	tokens, err := e.tokenizer.Tokenize(body)
	if err != nil {
		return nil, nil, fmt.Errorf("tokenize: %w", err)
	}
	lines := markdown.NewLineIndex(body)
	for _, tok := range tokens {
		if tok.Kind != markdown.TokenHTML {
			continue
		}
		from, to := lines.Range(tok.StartLine, tok.EndLine)
		if open == nil {
			m := startMarker.FindIndex(body[from:to])
			if m == nil {
				continue
			}
			open = []int{from + m[0], from + m[1]}
		}
		from = max(from, open[1])
		if from >= to {
			continue
		}
		if m := stopMarker.FindIndex(body[from:to]); m != nil {
			return open, []int{from + m[0], from + m[1]}, nil
		}
	}
	return open, nil, nil
}

// leadingBlankLines returns the whitespace-only lines at the start of s.
func leadingBlankLines(s string) string {
	end := 0
	for end < len(s) {
		i := strings.IndexByte(s[end:], '\n')
		if i < 0 || strings.TrimSpace(s[end:end+i]) != "" {
			break
		}
		end += i + 1
	}
	return s[:end]
}

// trimBlankLines removes blank lines around s without touching the
// indentation of its first line.
func trimBlankLines(s string) string {
	s = s[len(leadingBlankLines(s)):]
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func trailingNewlines(s string) string {
	i := len(s)
	for i > 0 && (s[i-1] == '\n' || s[i-1] == '\r') {
		i--
	}
	return s[i:]
}
