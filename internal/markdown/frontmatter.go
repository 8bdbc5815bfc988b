package markdown

import (
	"bytes"
)

// FrontMatter is the opaque metadata block at the top of a document.
// Its content is never interpreted here; Raw holds the exact bytes,
// delimiters and trailing newline included.
type FrontMatter struct {
	Present bool
	Raw     []byte
	EndLine int // 1-based line of the closing delimiter
}

// SplitFrontMatter separates a leading --- delimited block from the body.
// An unclosed block is not front matter and the whole input is returned as body.
func SplitFrontMatter(content []byte) (FrontMatter, []byte) {
	offset := 0
	lineNum := 0

	for offset < len(content) {
		line, next := nextLine(content, offset)
		lineNum++
		isDelim := string(bytes.TrimSpace(line)) == "---"

		// First line must be ---
		if lineNum == 1 && !isDelim {
			return FrontMatter{}, content
		}
		if lineNum > 1 && isDelim {
			return FrontMatter{
				Present: true,
				Raw:     content[:next],
				EndLine: lineNum,
			}, content[next:]
		}
		offset = next
	}

	return FrontMatter{}, content // unclosed or empty
}

// nextLine returns the line starting at offset (without its newline) and the
// offset just past the newline.
func nextLine(b []byte, offset int) ([]byte, int) {
	if i := bytes.IndexByte(b[offset:], '\n'); i >= 0 {
		return b[offset : offset+i], offset + i + 1
	}
	return b[offset:], len(b)
}
