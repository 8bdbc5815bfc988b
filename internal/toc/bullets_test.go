package toc

import (
	"strings"
	"testing"
)

func entriesAt(depths ...int) []Entry {
	out := make([]Entry, len(depths))
	for i, d := range depths {
		name := string(rune('a' + i))
		out[i] = Entry{Content: name, Slug: name, Depth: d, Order: i}
	}
	return out
}

func TestRenderGlyphCycle(t *testing.T) {
	bulletSets := [][]string{DefaultBullets, {"*"}, {"1.", "a."}, {"-", "+", "*", "~"}}
	for _, bullets := range bulletSets {
		out, err := Render(entriesAt(1, 2, 3, 4, 5, 6), Options{Bullets: bullets})
		if err != nil {
			t.Fatal(err)
		}
		for k, line := range strings.Split(out.Content, "\n") {
			want := strings.Repeat(DefaultIndent, k) + bullets[k%len(bullets)] + " "
			if !strings.HasPrefix(line, want) {
				t.Errorf("bullets %v line %d = %q, want prefix %q", bullets, k, line, want)
			}
		}
	}
}

func TestRenderRelativeToHighest(t *testing.T) {
	out, err := Render(entriesAt(3, 4, 3), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "- [a](#a)\n  * [b](#b)\n- [c](#c)"
	if out.Content != want {
		t.Errorf("content = %q, want %q", out.Content, want)
	}
	if out.Highest != 3 {
		t.Errorf("Highest = %d, want 3", out.Highest)
	}
}

func TestRenderShallowerThanFirst(t *testing.T) {
	out, err := Render(entriesAt(3, 2), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "  * [a](#a)\n- [b](#b)"
	if out.Content != want {
		t.Errorf("content = %q, want %q", out.Content, want)
	}
}

func TestRenderIndent(t *testing.T) {
	out, err := Render(entriesAt(1, 2), Options{Indent: "\t"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "- [a](#a)\n\t* [b](#b)"; out.Content != want {
		t.Errorf("content = %q, want %q", out.Content, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(nil, Options{Append: "\n_footer_"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Content != "" || out.Highest != 0 {
		t.Errorf("got %+v, want empty", out)
	}
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    Options
		want    string
	}{
		{name: "condensed", content: "Foo   bar\tbaz", want: "Foo bar baz"},
		{name: "strip word", content: "foo-aaa", opts: Options{Strip: []string{"aaa"}}, want: "foo"},
		{name: "strip leading", content: "aaa-Foo", opts: Options{Strip: []string{"aaa"}}, want: "Foo"},
		{name: "strip regexp chars literal", content: "a.b (x)", opts: Options{Strip: []string{"(x)"}}, want: "a.b"},
		{
			name:    "strip func",
			content: "Foo",
			opts: Options{StripFunc: func(s string) (string, error) {
				return strings.ToUpper(s), nil
			}},
			want: "FOO",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisplayText(tt.content, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DisplayText(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
