package markdown

import "testing"

func TestIsMarkdownFile(t *testing.T) {
	tests := map[string]bool{
		"a.md":       true,
		"b.MD":       true,
		"c.markdown": true,
		"dir/d.md":   true,
		"e.txt":      false,
		"README":     false,
		"doc.md~":    false,
		"doc.md.swp": false,
		".hidden.md": true,
	}
	for name, want := range tests {
		if got := IsMarkdownFile(name); got != want {
			t.Errorf("IsMarkdownFile(%q) = %v, want %v", name, got, want)
		}
	}
}
