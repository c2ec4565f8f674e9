package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp/completion"
)

// Completion handles textDocument/completion requests.
// Unknown documents and positions without a matching provider produce an
// empty list, never an error.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	result := &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		s.logger.Debug("Completion for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return result, nil
	}

	snapshot := doc.Snapshot()
	req := completion.NewRequestWithOptions(snapshot,
		params.Position.Line, params.Position.Character,
		s.config.ScanOptions(snapshot.Language))

	for _, item := range s.dispatcher.Items(req) {
		result.Items = append(result.Items, convertItem(item))
	}

	s.logger.Debug("Completion result", zap.Int("items", len(result.Items)))

	return result, nil
}

// convertItem converts a completion.Item to an LSP protocol.CompletionItem.
func convertItem(item completion.Item) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:      item.Label,
		Kind:       convertKind(item.Kind),
		Detail:     item.Detail,
		InsertText: item.Text(),
	}
}

// convertKind converts an item kind to the LSP completion item kind.
func convertKind(kind completion.ItemKind) protocol.CompletionItemKind {
	switch kind {
	case completion.ItemKindKeyword:
		return protocol.CompletionItemKindKeyword
	case completion.ItemKindValue:
		return protocol.CompletionItemKindValue
	case completion.ItemKindColor:
		return protocol.CompletionItemKindColor
	case completion.ItemKindClass:
		return protocol.CompletionItemKindClass
	case completion.ItemKindEnumMember:
		return protocol.CompletionItemKindEnumMember
	default:
		return protocol.CompletionItemKindText
	}
}
