package toc

import (
	"regexp"
	"strings"

	"github.com/pfassina/mdtoc/internal/markdown"
)

var (
	startMarker = regexp.MustCompile(`<!--[ \t]*toc[ \t]*-->`)
	stopMarker  = regexp.MustCompile(`<!--[ \t]*toc[ \t]*stop[ \t]*-->`)
)

// Entry is a heading selected for the TOC.
type Entry struct {
	Content string `json:"content" yaml:"content"`
	Slug    string `json:"slug" yaml:"slug"`
	Depth   int    `json:"lvl" yaml:"lvl"`
	Seen    int    `json:"seen" yaml:"seen"`
	Order   int    `json:"i" yaml:"i"`
	Line    int    `json:"line" yaml:"line"`
}

// Extraction is the outcome of one pass over a token stream.
type Extraction struct {
	Entries []Entry
	// Counted holds every heading after the start marker in document order,
	// dropped and omitted ones included. They all claim an anchor.
	Counted []Entry
	// TOCStart is the last line of the start marker, -1 without one.
	TOCStart int
	// Unindented is set when the first H1 was dropped and the remaining
	// entries were shifted up one level.
	Unindented bool
}

// Extract selects the headings that belong in a TOC. Tokens are not modified.
func Extract(tokens []markdown.Token, opts Options) Extraction {
	ex := Extraction{TOCStart: -1}

	var all []Entry
	for _, tok := range tokens {
		switch tok.Kind {
		case markdown.TokenHTML:
			if ex.TOCStart < 0 && startMarker.MatchString(tok.Content) {
				ex.TOCStart = tok.EndLine
			}
		case markdown.TokenHeading:
			if strings.TrimSpace(tok.Content) == "" {
				continue
			}
			all = append(all, Entry{
				Content: tok.Content,
				Depth:   clampDepth(tok.Level),
				Order:   len(all),
				Line:    tok.StartLine,
			})
		}
	}

	dropped := -1
	if opts.SkipFirstH1 {
		for i, e := range all {
			if e.Depth == 1 {
				dropped = i
				break
			}
		}
	}

	var kept []Entry
	for i, e := range all {
		if e.Line <= ex.TOCStart {
			continue
		}
		ex.Counted = append(ex.Counted, e)
		if i == dropped || omitted(e.Content, opts.Omit) {
			continue
		}
		kept = append(kept, e)
	}

	if dropped >= 0 && !hasDepth(kept, 1) {
		ex.Unindented = true
		for i := range kept {
			kept[i].Depth = clampDepth(kept[i].Depth - 1)
		}
	}

	ex.Entries = kept
	return ex
}

func omitted(content string, extra []string) bool {
	text := condense(content)
	for _, list := range [][]string{DefaultOmit, extra} {
		for _, o := range list {
			if strings.EqualFold(text, strings.TrimSpace(o)) {
				return true
			}
		}
	}
	return false
}

func hasDepth(entries []Entry, depth int) bool {
	for _, e := range entries {
		if e.Depth == depth {
			return true
		}
	}
	return false
}

func clampDepth(d int) int {
	switch {
	case d < 1:
		return 1
	case d > 6:
		return 6
	default:
		return d
	}
}

// condense collapses whitespace runs to single spaces.
func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
