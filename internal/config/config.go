package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pfassina/mdtoc/internal/toc"
)

type Config struct {
	SkipFirstH1    bool
	MaxDepth       int
	StopAtMaxDepth bool
	Bullets        []string
	Indent         string
	Append         string
	Omit           []string
	Strip          []string
	AllowedChars   string
	KeepTags       bool
	EncodeNonASCII bool
	NoSlugify      bool
	NoLinkify      bool

	Jobs         int
	CachePath    string
	Debounce     int // milliseconds
	PreviewStyle string
	PreviewWidth int
}

func Default() Config {
	return Config{
		MaxDepth:     toc.DefaultMaxDepth,
		Bullets:      append([]string(nil), toc.DefaultBullets...),
		Indent:       toc.DefaultIndent,
		Jobs:         4,
		Debounce:     200,
		PreviewStyle: "dark",
		PreviewWidth: 80,
	}
}

// Options converts the TOC settings into engine options.
func (c Config) Options() toc.Options {
	opts := toc.Options{
		SkipFirstH1:    c.SkipFirstH1,
		MaxDepth:       c.MaxDepth,
		Bullets:        c.Bullets,
		Indent:         c.Indent,
		Append:         c.Append,
		Omit:           c.Omit,
		Strip:          c.Strip,
		AllowedChars:   c.AllowedChars,
		KeepTags:       c.KeepTags,
		EncodeNonASCII: c.EncodeNonASCII,
	}
	if c.StopAtMaxDepth {
		opts.Truncate = toc.TruncateStop
	}
	if c.NoSlugify {
		opts.Slugify = toc.Disabled[toc.SlugFunc]()
	}
	if c.NoLinkify {
		opts.Linkify = toc.Disabled[toc.LinkifyFunc]()
	}
	return opts
}

// Fingerprint identifies the settings that change generated output. Cached
// results recorded under a different fingerprint are stale.
func (c Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "h1=%t depth=%d stop=%t indent=%q append=%q\n",
		c.SkipFirstH1, c.MaxDepth, c.StopAtMaxDepth, c.Indent, c.Append)
	fmt.Fprintf(h, "bullets=%q omit=%q strip=%q\n",
		strings.Join(c.Bullets, "\x00"), strings.Join(c.Omit, "\x00"), strings.Join(c.Strip, "\x00"))
	fmt.Fprintf(h, "allowed=%q tags=%t encode=%t slug=%t link=%t\n",
		c.AllowedChars, c.KeepTags, c.EncodeNonASCII, c.NoSlugify, c.NoLinkify)
	return hex.EncodeToString(h.Sum(nil))
}
