package texlsp

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
const (
	TokenEOF        lexer.TokenType = lexer.EOF
	TokenComment    lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenCommand                                  // \name, \name*, \<char>
	TokenWord                                     // any run of ordinary text
	TokenWhitespace                               // spaces and tabs
	TokenNewline                                  // \n, \r\n or \r
	TokenLBrace                                   // {
	TokenRBrace                                   // }
	TokenLBracket                                 // [
	TokenRBracket                                 // ]
	TokenLParen                                   // (
	TokenRParen                                   // )
	TokenAt                                       // @
	TokenComma                                    // ,
	TokenEquals                                   // =
	TokenHash                                     // #
	TokenQuote                                    // "
)

// MarkupLexer implements lexer.Definition for LaTeX and BibTeX sources.
//
// Columns in produced positions count UTF-16 code units so that they line up
// with LSP positions after PositionToLexer.
type MarkupLexer struct {
	language Language
	symbols  map[string]lexer.TokenType
}

// NewLexer creates a lexer definition for the given language.
// Only LaTeX treats % as a comment marker.
func NewLexer(lang Language) *MarkupLexer {
	return &MarkupLexer{
		language: lang,
		symbols: map[string]lexer.TokenType{
			"EOF":        TokenEOF,
			"Comment":    TokenComment,
			"Command":    TokenCommand,
			"Word":       TokenWord,
			"Whitespace": TokenWhitespace,
			"Newline":    TokenNewline,
			"{":          TokenLBrace,
			"}":          TokenRBrace,
			"[":          TokenLBracket,
			"]":          TokenRBracket,
			"(":          TokenLParen,
			")":          TokenRParen,
			"@":          TokenAt,
			",":          TokenComma,
			"=":          TokenEquals,
			"#":          TokenHash,
			`"`:          TokenQuote,
		},
	}
}

// Symbols returns the mapping of symbol names to token types.
func (d *MarkupLexer) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex creates a new Lexer for the given reader.
//
//nolint:ireturn // Required by participle's lexer.Definition interface.
func (d *MarkupLexer) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return d.LexString(filename, string(data))
}

// LexString implements lexer.StringDefinition for efficiency.
//
//nolint:ireturn // Required by participle's lexer.StringDefinition interface.
func (d *MarkupLexer) LexString(filename string, input string) (lexer.Lexer, error) {
	return newLexerState(filename, input, d.language), nil
}

// lexerState holds the state for lexing. It never fails: characters it does
// not recognise become part of a Word token.
type lexerState struct {
	filename string
	input    string
	comments bool
	offset   int
	line     int
	col      int
}

func newLexerState(filename, input string, lang Language) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		comments: lang == LanguageLatex,
		line:     1,
		col:      1,
	}
}

// Next returns the next token.
func (l *lexerState) Next() (lexer.Token, error) {
	return l.next(), nil
}

func (l *lexerState) next() lexer.Token {
	if l.eof() {
		return lexer.EOFToken(l.pos())
	}

	start := l.pos()
	r := l.peek()

	switch {
	case r == '\r' || r == '\n':
		l.advance()

		return l.token(TokenNewline, start)

	case r == ' ' || r == '\t':
		for !l.eof() && (l.peek() == ' ' || l.peek() == '\t') {
			l.advance()
		}

		return l.token(TokenWhitespace, start)

	case r == '%' && l.comments:
		for !l.eof() && !isNewline(l.peek()) {
			l.advance()
		}

		return l.token(TokenComment, start)

	case r == '\\':
		l.scanCommand()

		return l.token(TokenCommand, start)
	}

	if typ, ok := punctuation[r]; ok {
		l.advance()

		return l.token(typ, start)
	}

	for !l.eof() && !l.isSpecial(l.peek()) {
		l.advance()
	}

	return l.token(TokenWord, start)
}

// scanCommand consumes a control sequence starting at the escape character.
func (l *lexerState) scanCommand() {
	l.advance() // escape

	if l.eof() || isNewline(l.peek()) {
		return
	}

	if !isCommandLetter(l.peek()) {
		l.advance() // control symbol such as \% or \\

		return
	}

	for !l.eof() && isCommandLetter(l.peek()) {
		l.advance()
	}

	if l.peek() == '*' {
		l.advance()
	}
}

var punctuation = map[rune]lexer.TokenType{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
	'@': TokenAt,
	',': TokenComma,
	'=': TokenEquals,
	'#': TokenHash,
	'"': TokenQuote,
}

func (l *lexerState) isSpecial(r rune) bool {
	if _, ok := punctuation[r]; ok {
		return true
	}

	return r == '\\' || r == ' ' || r == '\t' || isNewline(r) || (r == '%' && l.comments)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

// advance consumes one rune, treating "\r\n" as a single line break.
func (l *lexerState) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	switch r {
	case '\r':
		if !l.eof() && l.input[l.offset] == '\n' {
			l.offset++
		}

		fallthrough
	case '\n':
		l.line++
		l.col = 1
	default:
		l.col += utf16.RuneLen(r)
	}
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

// Character helpers.

func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}

func isCommandLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '@'
}
