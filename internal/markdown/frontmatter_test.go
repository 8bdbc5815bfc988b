package markdown

import "testing"

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		present bool
		raw     string
		body    string
		endLine int
	}{
		{
			name:  "no frontmatter",
			input: "# Hello\n\nWorld",
			body:  "# Hello\n\nWorld",
		},
		{
			name:    "basic frontmatter",
			input:   "---\ntitle: My Note\ntags: [go, test]\n---\n\n# Content",
			present: true,
			raw:     "---\ntitle: My Note\ntags: [go, test]\n---\n",
			body:    "\n# Content",
			endLine: 4,
		},
		{
			name:    "closing delimiter at end of file",
			input:   "---\ntitle: x\n---",
			present: true,
			raw:     "---\ntitle: x\n---",
			body:    "",
			endLine: 3,
		},
		{
			name:    "trailing spaces on delimiters",
			input:   "---  \na: b\n--- \nbody\n",
			present: true,
			raw:     "---  \na: b\n--- \n",
			body:    "body\n",
			endLine: 3,
		},
		{
			name:  "unclosed frontmatter",
			input: "---\ntitle: Unclosed\n",
			body:  "---\ntitle: Unclosed\n",
		},
		{
			name:  "thematic break later in document",
			input: "intro\n---\nmore\n---\n",
			body:  "intro\n---\nmore\n---\n",
		},
		{
			name:  "empty input",
			input: "",
			body:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body := SplitFrontMatter([]byte(tt.input))
			if fm.Present != tt.present {
				t.Fatalf("present: got %v, want %v", fm.Present, tt.present)
			}
			if string(fm.Raw) != tt.raw {
				t.Errorf("raw: got %q, want %q", fm.Raw, tt.raw)
			}
			if string(body) != tt.body {
				t.Errorf("body: got %q, want %q", body, tt.body)
			}
			if fm.EndLine != tt.endLine {
				t.Errorf("end line: got %d, want %d", fm.EndLine, tt.endLine)
			}
			if got := string(fm.Raw) + string(body); got != tt.input {
				t.Errorf("raw+body does not reassemble input: %q", got)
			}
		})
	}
}
