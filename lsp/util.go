package lsp

import (
	"net/url"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"go.lsp.dev/protocol"

	"github.com/rlch/texlsp/analysis"
)

// spanToRange converts a pair of lexer positions to an LSP protocol.Range.
// Lexer positions are 1-based with UTF-16 columns, LSP positions are 0-based.
func spanToRange(start, end lexer.Position) protocol.Range {
	startLine, startChar := analysis.LexerToPosition(start)
	endLine, endChar := analysis.LexerToPosition(end)

	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

// URIToPath converts a file:// URI to a file system path.
// Other schemes are returned unchanged.
func URIToPath(uri protocol.DocumentURI) string {
	u, err := url.Parse(string(uri))
	if err != nil {
		// Fallback: strip file:// prefix
		return strings.TrimPrefix(string(uri), "file://")
	}

	if u.Scheme == "file" {
		return u.Path
	}

	return string(uri)
}
