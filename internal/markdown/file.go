package markdown

import (
	"path/filepath"
	"strings"
)

// IsMarkdownFile reports whether name has a markdown extension.
func IsMarkdownFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
