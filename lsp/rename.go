package lsp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/analysis"
)

// ErrInvalidLabelName is returned by Rename when the new name cannot be used
// as a LaTeX label.
var ErrInvalidLabelName = errors.New("invalid label name")

// PrepareRename handles textDocument/prepareRename requests.
// Returns the range of the label name under the cursor.
func (s *Server) PrepareRename(_ context.Context, params *protocol.PrepareRenameParams) (*protocol.Range, error) {
	s.logger.Debug("PrepareRename",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	label, ok := s.labelAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	rng := spanToRange(label.Start, label.End)

	return &rng, nil
}

// Rename handles textDocument/rename requests.
// Renames the label under the cursor in every open LaTeX document.
func (s *Server) Rename(_ context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	s.logger.Debug("Rename",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character),
		zap.String("newName", params.NewName))

	label, ok := s.labelAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	err := validateLabelName(params.NewName)
	if err != nil {
		return nil, err
	}

	edits := s.labelRenameEdits(label.Name, params.NewName)
	if len(edits) == 0 {
		return nil, nil //nolint:nilnil
	}

	return &protocol.WorkspaceEdit{
		Changes: edits,
	}, nil
}

// labelAt finds the label name at an LSP position of an open document.
func (s *Server) labelAt(uri protocol.DocumentURI, position protocol.Position) (analysis.Label, bool) {
	doc, ok := s.getDocument(uri)
	if !ok || doc.Language != texlsp.LanguageLatex {
		return analysis.Label{}, false
	}

	tree := texlsp.Scan(doc.Content, s.config.ScanOptions(doc.Language))
	pos := analysis.PositionToLexer(position.Line, position.Character)

	return analysis.LabelAt(doc.Content, tree, pos)
}

// labelRenameEdits replaces every definition of and reference to oldName
// across the open LaTeX documents.
func (s *Server) labelRenameEdits(oldName, newName string) map[protocol.DocumentURI][]protocol.TextEdit {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	edits := make(map[protocol.DocumentURI][]protocol.TextEdit)

	for _, doc := range docs {
		if doc.Language != texlsp.LanguageLatex {
			continue
		}

		tree := texlsp.Scan(doc.Content, s.config.ScanOptions(doc.Language))

		var docEdits []protocol.TextEdit

		for _, l := range analysis.Labels(doc.Content, tree) {
			if l.Name == oldName {
				docEdits = append(docEdits, protocol.TextEdit{
					Range:   spanToRange(l.Start, l.End),
					NewText: newName,
				})
			}
		}

		if len(docEdits) > 0 {
			edits[doc.URI] = docEdits
		}
	}

	return edits
}

// validateLabelName rejects names that would not survive as a single label
// argument.
func validateLabelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidLabelName)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || strings.ContainsRune(`{}[],\%#`, r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidLabelName, name, r)
		}
	}

	return nil
}
