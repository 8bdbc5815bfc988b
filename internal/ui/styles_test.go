package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/index"
)

func TestStatus(t *testing.T) {
	s := NewStyles(DefaultPalette())
	tests := []struct {
		name string
		res  app.FileResult
		want []string
	}{
		{name: "updated", res: app.FileResult{Path: "README.md", Outcome: app.Updated}, want: []string{"updated", "README.md"}},
		{name: "stale", res: app.FileResult{Path: "docs/a.md", Outcome: app.Stale}, want: []string{"stale", "docs/a.md"}},
		{
			name: "failed",
			res:  app.FileResult{Path: "x.md", Outcome: app.Failed, Err: errors.New("permission denied")},
			want: []string{"failed", "x.md", "permission denied"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(s.Status(tt.res))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Status() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := NewStyles(DefaultPalette())
	results := []app.FileResult{
		{Outcome: app.Unchanged},
		{Outcome: app.Updated},
		{Outcome: app.Unchanged},
	}
	got := ansi.Strip(s.Summary(results))
	if want := "3 files: 2 unchanged, 1 updated"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	one := ansi.Strip(s.Summary(results[:1]))
	if want := "1 file: 1 unchanged"; one != want {
		t.Errorf("Summary() = %q, want %q", one, want)
	}
}

func TestHit(t *testing.T) {
	s := NewStyles(DefaultPalette())
	got := ansi.Strip(s.Hit(index.HeadingResult{Path: "docs/a.md", Level: 2, Text: "Install", Slug: "install", Line: 7}))
	if want := "docs/a.md:7 ## Install #install"; got != want {
		t.Errorf("Hit() = %q, want %q", got, want)
	}
}

func TestDocument(t *testing.T) {
	s := NewStyles(DefaultPalette())
	tests := []struct {
		doc  index.Document
		want string
	}{
		{index.Document{Path: "a.md", Size: 42, ModTime: 86400}, "a.md  42B  1970-01-02 00:00:00"},
		{index.Document{Path: "b.md"}, "b.md  0B  -"},
	}
	for _, tt := range tests {
		if got := ansi.Strip(s.Document(tt.doc)); got != tt.want {
			t.Errorf("Document(%+v) = %q, want %q", tt.doc, got, tt.want)
		}
	}
}
