package toc

// SlugFunc computes the base anchor for a heading. The duplicate suffix is
// added afterwards, so e.Seen is not yet known.
type SlugFunc func(text string, e Entry) (string, error)

// LinkifyFunc renders the display text and slug of an entry.
type LinkifyFunc func(e Entry, text, slug string) (string, error)

// StripFunc rewrites the display text of a heading.
type StripFunc func(text string) (string, error)

// FilterFunc reports whether an entry belongs in the rendered list.
type FilterFunc func(text string, e Entry, all []Entry) (bool, error)

// TruncatePolicy decides what MaxDepth does to the rendered list.
type TruncatePolicy int

const (
	// TruncateSkip leaves out entries deeper than MaxDepth and keeps going.
	TruncateSkip TruncatePolicy = iota
	// TruncateStop ends the list after the first entry at MaxDepth.
	TruncateStop
)

const (
	DefaultMaxDepth = 6
	DefaultIndent   = "  "
)

// DefaultBullets rotate by relative level.
var DefaultBullets = []string{"-", "*", "+"}

// DefaultOmit lists heading texts that never appear in a TOC. Comparison is
// case-insensitive.
var DefaultOmit = []string{"Table of Contents", "TOC"}

// Options controls extraction and rendering. The zero value renders with the
// defaults: first H1 kept, depth 6, bullets "-", "*", "+".
type Options struct {
	// SkipFirstH1 drops the first level-1 heading from the list.
	SkipFirstH1 bool
	MaxDepth    int
	Truncate    TruncatePolicy
	Bullets     []string
	Indent      string

	Slugify Hook[SlugFunc]
	// SlugEnding builds the suffix for repeated headings. Defaults to base-N.
	SlugEnding func(base string, seen int) string
	// AllowedChars are punctuation characters kept in slugs.
	AllowedChars string
	// KeepTags leaves HTML tags in the slug source.
	KeepTags bool
	// EncodeNonASCII percent-encodes non-ASCII runes left in the slug.
	EncodeNonASCII bool

	// Strip removes substrings from display text, never from slugs.
	Strip     []string
	StripFunc StripFunc

	Filter  FilterFunc
	Linkify Hook[LinkifyFunc]

	Append string
	// Omit extends DefaultOmit.
	Omit []string

	// TOC replaces the generated list when inserting.
	TOC *string
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) bullets() []string {
	if len(o.Bullets) == 0 {
		return DefaultBullets
	}
	return o.Bullets
}

func (o Options) indent() string {
	if o.Indent == "" {
		return DefaultIndent
	}
	return o.Indent
}
