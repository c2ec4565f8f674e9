package texlsp

import (
	"iter"
	"unicode/utf16"

	"github.com/alecthomas/participle/v2/lexer"
)

// GroupKind distinguishes mandatory {} arguments from optional [] arguments.
type GroupKind uint8

const (
	// GroupBrace is a {...} group.
	GroupBrace GroupKind = iota
	// GroupBracket is a [...] group. Brackets only form a group directly
	// after a command.
	GroupBracket
	// GroupParen is a (...) BibTeX entry body.
	GroupParen
)

func (k GroupKind) String() string {
	switch k {
	case GroupBracket:
		return "bracket"
	case GroupParen:
		return "paren"
	default:
		return "brace"
	}
}

// NewlinePolicy controls whether a line break may separate a command from
// its arguments (or one argument from the next).
type NewlinePolicy uint8

const (
	// NewlineAllowed skips a single line break. A blank line still ends the
	// argument list, as a paragraph break does in TeX.
	NewlineAllowed NewlinePolicy = iota
	// NewlineForbidden ends the argument list at any line break.
	NewlineForbidden
)

// ScanOptions configure Scan.
type ScanOptions struct {
	Language Language
	Newlines NewlinePolicy
	Filename string
}

// DefaultScanOptions returns the options used for lang when nothing is
// configured: LaTeX allows a line break before an argument, BibTeX does not.
func DefaultScanOptions(lang Language) ScanOptions {
	opts := ScanOptions{Language: lang, Newlines: NewlineAllowed}
	if lang == LanguageBibtex {
		opts.Newlines = NewlineForbidden
	}

	return opts
}

// Command is a command invocation such as \definecolor.
type Command struct {
	ID     int
	Name   string         // including the escape character
	Start  lexer.Position // position of the escape character
	End    lexer.Position // position just past the name
	Groups []int          // argument group ids, in source order
	Parent int            // innermost group open at the command, or -1
}

// Group is a delimited span. Groups form a tree through Parent/Children.
type Group struct {
	ID     int
	Kind   GroupKind
	Open   lexer.Position // position of the opening delimiter
	Close  lexer.Position // position just past the closing delimiter; for unclosed groups, where scanning gave up
	Closed bool
	// Command owning the group as an argument, or -1 for a bare brace group.
	Command int
	// Index is the ordinal of the group among the owning command's groups of
	// the same kind, or -1 for a bare group.
	Index    int
	Parent   int
	Children []int
}

// Entry is a BibTeX declaration header such as "@article".
type Entry struct {
	Name  string // type name without the @, possibly empty
	Start lexer.Position
	End   lexer.Position
	Body  int // group id of the {...} or (...) body, or -1
}

// Tree is the structural view of a document: an arena of commands and
// groups, plus BibTeX entries. Ids index the Commands and Groups slices.
type Tree struct {
	Language Language
	Lines    *LineIndex
	Commands []Command
	Groups   []Group
	Entries  []Entry
	Roots    []int // top-level group ids
	EOF      lexer.Position
}

// Invocations returns a restartable sequence over the commands in source order.
func (t *Tree) Invocations() iter.Seq[*Command] {
	return func(yield func(*Command) bool) {
		for i := range t.Commands {
			if !yield(&t.Commands[i]) {
				return
			}
		}
	}
}

// Command returns the command with the given id, or nil.
func (t *Tree) Command(id int) *Command {
	if id < 0 || id >= len(t.Commands) {
		return nil
	}

	return &t.Commands[id]
}

// Group returns the group with the given id, or nil.
func (t *Tree) Group(id int) *Group {
	if id < 0 || id >= len(t.Groups) {
		return nil
	}

	return &t.Groups[id]
}

// Unclosed returns the ids of groups that were never closed.
func (t *Tree) Unclosed() []int {
	var ids []int

	for i := range t.Groups {
		if !t.Groups[i].Closed {
			ids = append(ids, i)
		}
	}

	return ids
}

// Scan builds the structural view of text. It never fails: unmatched
// delimiters are left as unclosed groups or ignored.
func Scan(text string, opts ScanOptions) *Tree {
	s := &scanner{
		tree: &Tree{
			Language: opts.Language,
			Lines:    NewLineIndex(text),
		},
		opts:    opts,
		pending: -1,
		entry:   -1,
	}

	lex := newLexerState(opts.Filename, text, opts.Language)

	for {
		tok := lex.next()
		if tok.EOF() {
			s.tree.EOF = tok.Pos

			break
		}

		s.consume(tok)
	}

	// Groups still open at EOF extend to EOF and stay unclosed.
	for _, id := range s.stack {
		s.tree.Groups[id].Close = s.tree.EOF
	}

	return s.tree
}

type scanner struct {
	tree  *Tree
	opts  ScanOptions
	stack []int // open group ids, innermost last

	// pending is the command whose argument list is still open for a
	// following group, or -1.
	pending  int
	newlines int

	// entry is the BibTeX entry still waiting for its name or body, or -1.
	entry int
}

func (s *scanner) consume(tok lexer.Token) {
	if tok.Type != TokenWhitespace && tok.Type != TokenWord && tok.Type != TokenLBrace && tok.Type != TokenLParen {
		s.entry = -1
	}

	switch tok.Type {
	case TokenWhitespace, TokenComment:
		return

	case TokenNewline:
		if s.pending >= 0 {
			s.newlines++
			if s.opts.Newlines == NewlineForbidden || s.newlines > 1 {
				s.pending = -1
			}
		}

		return

	case TokenCommand:
		s.addCommand(tok)

		return

	case TokenLBrace:
		id := s.openGroup(GroupBrace, s.pending, tok.Pos)
		if s.entry >= 0 {
			s.tree.Entries[s.entry].Body = id
			s.entry = -1
		}

		return

	case TokenLParen:
		if s.entry >= 0 {
			s.tree.Entries[s.entry].Body = s.openGroup(GroupParen, -1, tok.Pos)
			s.entry = -1

			return
		}

	case TokenRParen:
		if top := s.top(); top >= 0 && s.tree.Groups[top].Kind == GroupParen {
			s.closeTop(tok)

			return
		}

	case TokenLBracket:
		if s.pending >= 0 {
			s.openGroup(GroupBracket, s.pending, tok.Pos)

			return
		}

	case TokenRBracket:
		if top := s.top(); top >= 0 && s.tree.Groups[top].Kind == GroupBracket {
			s.closeTop(tok)

			return
		}

	case TokenRBrace:
		if s.closeBrace(tok) {
			return
		}

	case TokenAt:
		if s.opts.Language == LanguageBibtex && len(s.stack) == 0 {
			s.tree.Entries = append(s.tree.Entries, Entry{
				Start: tok.Pos,
				End:   endOf(tok),
				Body:  -1,
			})
			s.entry = len(s.tree.Entries) - 1
			s.pending = -1

			return
		}

	case TokenWord:
		if s.entry >= 0 {
			e := &s.tree.Entries[s.entry]
			if e.Name == "" && e.End.Offset == tok.Pos.Offset {
				e.Name = tok.Value
				e.End = endOf(tok)
				s.pending = -1

				return
			}
		}

		s.entry = -1
	}

	// Anything else is ordinary text and ends the argument list.
	s.pending = -1
}

func (s *scanner) top() int {
	if len(s.stack) == 0 {
		return -1
	}

	return s.stack[len(s.stack)-1]
}

func (s *scanner) addCommand(tok lexer.Token) {
	id := len(s.tree.Commands)
	s.tree.Commands = append(s.tree.Commands, Command{
		ID:     id,
		Name:   tok.Value,
		Start:  tok.Pos,
		End:    endOf(tok),
		Parent: s.top(),
	})
	s.pending = id
	s.newlines = 0
}

func (s *scanner) openGroup(kind GroupKind, owner int, pos lexer.Position) int {
	id := len(s.tree.Groups)
	parent := s.top()

	index := -1
	if owner >= 0 {
		index = 0
		for _, g := range s.tree.Commands[owner].Groups {
			if s.tree.Groups[g].Kind == kind {
				index++
			}
		}

		s.tree.Commands[owner].Groups = append(s.tree.Commands[owner].Groups, id)
	}

	s.tree.Groups = append(s.tree.Groups, Group{
		ID:      id,
		Kind:    kind,
		Open:    pos,
		Command: owner,
		Index:   index,
		Parent:  parent,
	})

	if parent >= 0 {
		s.tree.Groups[parent].Children = append(s.tree.Groups[parent].Children, id)
	} else {
		s.tree.Roots = append(s.tree.Roots, id)
	}

	s.stack = append(s.stack, id)
	s.pending = -1

	return id
}

// closeTop closes the innermost open group at tok and resumes its owner's
// argument list.
func (s *scanner) closeTop(tok lexer.Token) {
	id := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	g := &s.tree.Groups[id]
	g.Close = endOf(tok)
	g.Closed = true

	s.pending = g.Command
	s.newlines = 0
}

// closeBrace closes the innermost open brace group, abandoning any bracket
// groups opened inside it. It reports false for a stray closing brace.
func (s *scanner) closeBrace(tok lexer.Token) bool {
	i := len(s.stack) - 1
	for i >= 0 && s.tree.Groups[s.stack[i]].Kind != GroupBrace {
		i--
	}

	if i < 0 {
		return false
	}

	for len(s.stack)-1 > i {
		id := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.tree.Groups[id].Close = tok.Pos
	}

	s.closeTop(tok)

	return true
}

// endOf returns the position just past a single-line token.
func endOf(tok lexer.Token) lexer.Position {
	end := tok.Pos
	end.Offset += len(tok.Value)

	for _, r := range tok.Value {
		end.Column += utf16.RuneLen(r)
	}

	return end
}
