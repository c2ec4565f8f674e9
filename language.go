package texlsp

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language identifies the grammar variant of a document.
type Language uint8

const (
	// LanguageLatex is LaTeX source (.tex, .sty, .cls).
	LanguageLatex Language = iota + 1
	// LanguageBibtex is a BibTeX bibliography database (.bib).
	LanguageBibtex
)

// languageNames maps accepted names (and LSP language identifiers) to languages.
var languageNames = map[string]Language{
	"latex":  LanguageLatex,
	"tex":    LanguageLatex,
	"bibtex": LanguageBibtex,
	"bib":    LanguageBibtex,
}

// languageExtensions maps file extensions to languages.
var languageExtensions = map[string]Language{
	".tex": LanguageLatex,
	".sty": LanguageLatex,
	".cls": LanguageLatex,
	".ltx": LanguageLatex,
	".dtx": LanguageLatex,
	".bib": LanguageBibtex,
}

func (l Language) String() string {
	switch l {
	case LanguageLatex:
		return "latex"
	case LanguageBibtex:
		return "bibtex"
	default:
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
}

// Valid reports whether l is one of the known languages.
func (l Language) Valid() bool {
	return l == LanguageLatex || l == LanguageBibtex
}

// ParseLanguage parses a language name such as "latex" or "bib".
func ParseLanguage(name string) (Language, error) {
	if lang, ok := languageNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// LanguageFromPath infers the language from a file path or URI extension.
func LanguageFromPath(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageExtensions[ext]; ok {
		return lang, nil
	}

	return 0, fmt.Errorf("%w: no language for extension %q", ErrUnknownLanguage, ext)
}

// MarshalText implements encoding.TextMarshaler.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, uint8(l))
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	lang, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}

	*l = lang

	return nil
}

// LanguageSet is an immutable set of languages.
type LanguageSet uint8

// NewLanguageSet returns the set containing langs.
func NewLanguageSet(langs ...Language) LanguageSet {
	var s LanguageSet
	for _, l := range langs {
		if l.Valid() {
			s |= 1 << l
		}
	}

	return s
}

// Has reports whether l is a member of s.
func (s LanguageSet) Has(l Language) bool {
	return l.Valid() && s&(1<<l) != 0
}

// Languages returns the members of s in declaration order.
func (s LanguageSet) Languages() []Language {
	var out []Language

	for _, l := range []Language{LanguageLatex, LanguageBibtex} {
		if s.Has(l) {
			out = append(out, l)
		}
	}

	return out
}

func (s LanguageSet) String() string {
	names := make([]string, 0, 2)
	for _, l := range s.Languages() {
		names = append(names, l.String())
	}

	return "{" + strings.Join(names, ",") + "}"
}
