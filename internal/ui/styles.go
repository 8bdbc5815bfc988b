package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/index"
)

// Palette is the set of colors status output is drawn with.
type Palette struct {
	Accent  lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultPalette returns the default color palette (catppuccin-inspired).
func DefaultPalette() Palette {
	return Palette{
		Accent:  lipgloss.Color("#cba6f7"),
		Subtle:  lipgloss.Color("#6c7086"),
		Text:    lipgloss.Color("#cdd6f4"),
		Dim:     lipgloss.Color("#585b70"),
		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
	}
}

type Styles struct {
	Label   map[app.Outcome]lipgloss.Style
	Path    lipgloss.Style
	Detail  lipgloss.Style
	Heading lipgloss.Style
	Slug    lipgloss.Style
}

func NewStyles(p Palette) Styles {
	label := lipgloss.NewStyle().Width(10).Bold(true)
	return Styles{
		Label: map[app.Outcome]lipgloss.Style{
			app.Updated:   label.Foreground(p.Success),
			app.Unchanged: label.Foreground(p.Dim),
			app.Cached:    label.Foreground(p.Dim),
			app.NoMarker:  label.Foreground(p.Subtle),
			app.Indexed:   label.Foreground(p.Accent),
			app.Stale:     label.Foreground(p.Warning),
			app.Failed:    label.Foreground(p.Error),
		},
		Path:    lipgloss.NewStyle().Foreground(p.Text),
		Detail:  lipgloss.NewStyle().Foreground(p.Error),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Slug:    lipgloss.NewStyle().Foreground(p.Subtle),
	}
}

// Status renders one line for a file result.
func (s Styles) Status(res app.FileResult) string {
	line := s.Label[res.Outcome].Render(res.Outcome.String()) + " " + s.Path.Render(res.Path)
	if res.Err != nil {
		line += " " + s.Detail.Render(res.Err.Error())
	}
	return line
}

// Summary counts results per outcome, e.g. "3 files: 1 updated, 2 unchanged".
func (s Styles) Summary(results []app.FileResult) string {
	counts := make(map[app.Outcome]int)
	for _, r := range results {
		counts[r.Outcome]++
	}
	outcomes := make([]app.Outcome, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })

	parts := make([]string, len(outcomes))
	for i, o := range outcomes {
		parts[i] = fmt.Sprintf("%d %s", counts[o], o)
	}
	noun := "files"
	if len(results) == 1 {
		noun = "file"
	}
	return s.Heading.Render(fmt.Sprintf("%d %s", len(results), noun)) + ": " + strings.Join(parts, ", ")
}

// Hit renders a search result as "path:line ## text #slug".
func (s Styles) Hit(h index.HeadingResult) string {
	loc := s.Path.Render(fmt.Sprintf("%s:%d", h.Path, h.Line))
	marks := s.Heading.Render(strings.Repeat("#", h.Level))
	return loc + " " + marks + " " + h.Text + " " + s.Slug.Render("#"+h.Slug)
}

// Document renders a cached file as "path  size  modified".
func (s Styles) Document(d index.Document) string {
	modified := "-"
	if d.ModTime > 0 {
		modified = time.Unix(d.ModTime, 0).UTC().Format(time.DateTime)
	}
	return s.Path.Render(d.Path) + "  " + s.Slug.Render(fmt.Sprintf("%dB  %s", d.Size, modified))
}
