package toc

import (
	"bytes"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

var linkTitle = regexp.MustCompile(`^\[([^\]]+)\]\(`)

// slugPunct is deleted from slugs. Spaces and tabs are handled before this
// set is applied.
const slugPunct = "|$&`~=\\/@+*!?({[]})<>.,;:'\"^" +
	"。？！，、；：“”【】（）〔〕［］﹃﹄‘’﹁﹂—…－～《》〈〉「」"

// Slugify returns the anchor for text, suffixed with -seen for repeats.
func Slugify(text string, seen int, opts Options) (string, error) {
	return slugFor(Entry{Content: text, Seen: seen}, opts)
}

func slugFor(e Entry, opts Options) (string, error) {
	base, err := baseSlug(e, opts)
	if err != nil {
		return "", err
	}
	return withEnding(base, e.Seen, opts), nil
}

func baseSlug(e Entry, opts Options) (string, error) {
	switch fn, ok := opts.Slugify.Func(); {
	case opts.Slugify.IsDisabled():
		return e.Content, nil
	case ok:
		return fn(e.Content, e)
	default:
		return defaultSlug(e.Content, opts), nil
	}
}

// slugger hands out the anchors of one document. Repeats are counted per
// base slug, and a suffixed slug never matches one already handed out.
type slugger struct {
	opts   Options
	repeat map[string]int
	taken  map[string]bool
}

func newSlugger(opts Options) *slugger {
	return &slugger{opts: opts, repeat: make(map[string]int), taken: make(map[string]bool)}
}

// next sets the Slug and Seen of e.
func (s *slugger) next(e Entry) (Entry, error) {
	base, err := baseSlug(e, s.opts)
	if err != nil {
		return e, err
	}
	slug, seen := base, 0
	if s.taken[base] {
		for n := s.repeat[base] + 1; ; n++ {
			next := withEnding(base, n, s.opts)
			// A custom ending may ignore n.
			if next == slug {
				break
			}
			slug, seen = next, n
			if !s.taken[slug] {
				break
			}
		}
		s.repeat[base] = seen
	}
	s.taken[slug] = true
	e.Slug, e.Seen = slug, seen
	return e, nil
}

func withEnding(base string, seen int, opts Options) string {
	if seen <= 0 {
		return base
	}
	if opts.SlugEnding != nil {
		return opts.SlugEnding(base, seen)
	}
	return base + "-" + strconv.Itoa(seen)
}

func defaultSlug(s string, opts Options) string {
	s = LinkTitle(s)
	s = ansi.Strip(s)
	if !opts.KeepTags {
		s = stripTags(s)
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "\t", "--")
	s = removePunct(s, opts.AllowedChars)
	s = Transliterate(s)
	if opts.EncodeNonASCII {
		s = encodeNonASCII(s)
	}
	return s
}

// LinkTitle returns the label of a heading that is itself a markdown link.
func LinkTitle(s string) string {
	if m := linkTitle.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// stripTags drops complete HTML tags and comments, keeping text exactly as
// written.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// A tag left open at the end of s is kept as text.
			b.Write(z.Raw())
			b.Write(z.Buffered())
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		default:
			if raw := z.Raw(); !bytes.HasSuffix(raw, []byte(">")) {
				b.Write(raw)
			}
		}
	}
}

func removePunct(s, allowed string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(slugPunct, r) && !strings.ContainsRune(allowed, r) {
			return -1
		}
		return r
	}, s)
}

func encodeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		b.WriteString(url.PathEscape(string(r)))
	}
	return b.String()
}
