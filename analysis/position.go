// Package analysis resolves cursor positions against a scanned document.
package analysis

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/texlsp"
)

// Context is the command argument enclosing a position.
type Context struct {
	Command   string // command name including the escape character
	CommandID int
	Kind      texlsp.GroupKind
	Argument  int // ordinal among the command's groups of the same kind
	Group     int // group id in the tree
	Open      lexer.Position
	Close     lexer.Position
}

// Locate finds the innermost group containing pos and reports it when it is
// a closed argument of a command. Positions off the document's line grid,
// positions inside unclosed groups and positions inside bare brace groups
// yield false.
func Locate(tree *texlsp.Tree, pos lexer.Position) (Context, bool) {
	if tree == nil || tree.Lines == nil || !tree.Lines.Valid(pos) {
		return Context{}, false
	}

	innermost := -1
	children := tree.Roots

	// Groups nest properly, so at most one child per level contains pos.
	for {
		next := -1

		for _, id := range children {
			if containsPosition(&tree.Groups[id], pos) {
				next = id

				break
			}
		}

		if next < 0 {
			break
		}

		innermost = next
		children = tree.Groups[next].Children
	}

	g := tree.Group(innermost)
	if g == nil || !g.Closed {
		return Context{}, false
	}

	cmd := tree.Command(g.Command)
	if cmd == nil {
		return Context{}, false
	}

	return Context{
		Command:   cmd.Name,
		CommandID: cmd.ID,
		Kind:      g.Kind,
		Argument:  g.Index,
		Group:     g.ID,
		Open:      g.Open,
		Close:     g.Close,
	}, true
}

// EntryTypeAt returns the BibTeX entry whose "@type" token contains pos,
// including both ends of the token.
func EntryTypeAt(tree *texlsp.Tree, pos lexer.Position) (*texlsp.Entry, bool) {
	if tree == nil || tree.Lines == nil || !tree.Lines.Valid(pos) {
		return nil, false
	}

	for i := range tree.Entries {
		e := &tree.Entries[i]
		if comparePosition(e.Start, pos) <= 0 && comparePosition(pos, e.End) <= 0 {
			return e, true
		}
	}

	return nil, false
}

// containsPosition reports whether pos lies strictly between the group's
// delimiters. Open is the opening delimiter itself and Close is just past the
// closing one, so the caret right after the opening delimiter is inside while
// the carets before the opening and after the closing delimiter are not.
// An unclosed group also contains its final position.
func containsPosition(g *texlsp.Group, pos lexer.Position) bool {
	if comparePosition(g.Open, pos) >= 0 {
		return false
	}

	c := comparePosition(pos, g.Close)
	if g.Closed {
		return c < 0
	}

	return c <= 0
}

// comparePosition orders positions by line, then column.
func comparePosition(a, b lexer.Position) int {
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Column < b.Column:
		return -1
	case a.Column > b.Column:
		return 1
	default:
		return 0
	}
}

// PositionToLexer converts LSP 0-based line/character to participle's 1-based line/column.
func PositionToLexer(line, character uint32) lexer.Position {
	return lexer.Position{
		Line:   int(line) + 1, // LSP is 0-based, participle is 1-based
		Column: int(character) + 1,
	}
}

// LexerToPosition converts a participle position back to LSP 0-based line/character.
func LexerToPosition(pos lexer.Position) (line, character uint32) {
	return uint32(max(0, pos.Line-1)), uint32(max(0, pos.Column-1)) //nolint:gosec // G115: small non-negative values
}
