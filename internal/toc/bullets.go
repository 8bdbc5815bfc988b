package toc

import (
	"regexp"
	"strings"
)

// Rendered is the bullet list built from a set of entries.
type Rendered struct {
	Content string
	// Highest is the smallest depth among the entries that passed the
	// filter, 0 when none did.
	Highest int
}

// Render turns entries into an indented markdown list. Entries are expected
// to carry their slugs already.
func Render(entries []Entry, opts Options) (Rendered, error) {
	visible, err := applyFilter(entries, opts.Filter)
	if err != nil {
		return Rendered{}, err
	}

	out := Rendered{Highest: highest(visible)}
	if len(visible) == 0 {
		return out, nil
	}

	bullets := opts.bullets()
	indent := opts.indent()
	maxDepth := opts.maxDepth()

	lines := make([]string, 0, len(visible))
	for _, e := range visible {
		if e.Depth > maxDepth {
			continue
		}

		lvl := e.Depth - out.Highest
		if lvl < 0 {
			lvl = 0
		}

		item, err := listItem(e, opts)
		if err != nil {
			return Rendered{}, err
		}
		lines = append(lines, strings.Repeat(indent, lvl)+bullets[lvl%len(bullets)]+" "+item)

		if opts.Truncate == TruncateStop && e.Depth == maxDepth {
			break
		}
	}

	if len(lines) > 0 {
		out.Content = strings.Join(lines, "\n") + opts.Append
	}
	return out, nil
}

func applyFilter(entries []Entry, fn FilterFunc) ([]Entry, error) {
	if fn == nil {
		return entries, nil
	}
	var kept []Entry
	for _, e := range entries {
		ok, err := fn(e.Content, e, entries)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func highest(entries []Entry) int {
	h := 0
	for _, e := range entries {
		if h == 0 || e.Depth < h {
			h = e.Depth
		}
	}
	return h
}

func listItem(e Entry, opts Options) (string, error) {
	text, err := DisplayText(e.Content, opts)
	if err != nil {
		return "", err
	}
	if opts.Linkify.IsDisabled() {
		return text, nil
	}
	if fn, ok := opts.Linkify.Func(); ok {
		return fn(e, text, e.Slug)
	}
	return "[" + text + "](#" + e.Slug + ")", nil
}

// DisplayText is the label shown for a heading: whitespace condensed and the
// configured strip rules applied.
func DisplayText(content string, opts Options) (string, error) {
	text := condense(content)
	if opts.StripFunc != nil {
		return opts.StripFunc(text)
	}
	if len(opts.Strip) == 0 {
		return text, nil
	}
	return stripWords(text, opts.Strip), nil
}

func stripWords(text string, words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return text
	}
	re := regexp.MustCompile(strings.Join(quoted, "|"))
	text = re.ReplaceAllString(strings.TrimSpace(text), "")
	text = strings.TrimPrefix(text, "-")
	text = strings.TrimSuffix(text, "-")
	return strings.TrimSpace(text)
}
