package texlsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// LineIndex records the UTF-16 length of every line of a text.
// Lines are terminated by "\n", "\r\n" or a lone "\r".
type LineIndex struct {
	starts  []int // byte offset of each line start
	lengths []int // line length in UTF-16 code units, excluding the terminator
}

// NewLineIndex indexes text.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{starts: []int{0}}
	width := 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch r {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				size = 2
			}

			fallthrough
		case '\n':
			idx.lengths = append(idx.lengths, width)
			idx.starts = append(idx.starts, i+size)
			width = 0
		default:
			width += utf16.RuneLen(r)
		}

		i += size
	}

	idx.lengths = append(idx.lengths, width)

	return idx
}

// LineCount returns the number of lines. An empty text has one empty line.
func (idx *LineIndex) LineCount() int {
	return len(idx.lengths)
}

// LineLength returns the UTF-16 length of the 0-based line, or -1 when the
// line does not exist.
func (idx *LineIndex) LineLength(line int) int {
	if line < 0 || line >= len(idx.lengths) {
		return -1
	}

	return idx.lengths[line]
}

// LineStart returns the byte offset at which the 0-based line starts.
func (idx *LineIndex) LineStart(line int) (int, bool) {
	if line < 0 || line >= len(idx.starts) {
		return 0, false
	}

	return idx.starts[line], true
}

// Valid reports whether a 1-based lexer position lies on the text's grid.
// The caret may sit anywhere from the first column to just past the last
// character of a line.
func (idx *LineIndex) Valid(pos lexer.Position) bool {
	length := idx.LineLength(pos.Line - 1)
	if length < 0 {
		return false
	}

	return pos.Column >= 1 && pos.Column <= length+1
}
