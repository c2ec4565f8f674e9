package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// BibTeX entries are listed by citation key, with the entry type as detail.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Language != texlsp.LanguageBibtex {
		return nil, nil
	}

	tree := texlsp.Scan(doc.Content, s.config.ScanOptions(doc.Language))
	symbols := entrySymbols(doc.Content, tree)

	// Convert to []any for the protocol
	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// entrySymbols builds one symbol per BibTeX entry that has a {...} or (...)
// body.
func entrySymbols(text string, tree *texlsp.Tree) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for _, e := range tree.Entries {
		body := tree.Group(e.Body)
		if body == nil || e.Name == "" {
			continue
		}

		name := entryKey(text, body)
		if name == "" {
			name = e.Name
		}

		kind := protocol.SymbolKindStruct
		switch strings.ToLower(e.Name) {
		case "string":
			kind = protocol.SymbolKindConstant
		case "preamble", "comment":
			kind = protocol.SymbolKindNamespace
		}

		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           name,
			Detail:         "@" + e.Name,
			Kind:           kind,
			Range:          spanToRange(e.Start, body.Close),
			SelectionRange: spanToRange(e.Start, e.End),
		})
	}

	return symbols
}

// entryKey returns the citation key of an entry body, or the macro name of
// an @string entry.
func entryKey(text string, body *texlsp.Group) string {
	start := body.Open.Offset + 1
	end := body.Close.Offset
	if !body.Closed || end > len(text) {
		end = len(text)
	}

	if start >= end {
		return ""
	}

	content := text[start:end]
	if i := strings.IndexAny(content, ",})\n"); i >= 0 {
		content = content[:i]
	}

	if i := strings.Index(content, "="); i >= 0 {
		content = content[:i]
	}

	return strings.TrimSpace(content)
}
