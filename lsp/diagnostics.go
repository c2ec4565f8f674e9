package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
)

// diagnosticSource is reported as the source of every diagnostic.
const diagnosticSource = "texlsp"

// publishDiagnostics reports unterminated groups in the document.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	diagnostics := []protocol.Diagnostic{}

	if doc.Language.Valid() {
		tree := texlsp.Scan(doc.Content, s.config.ScanOptions(doc.Language))
		diagnostics = unclosedDiagnostics(tree)
	}

	for _, d := range diagnostics {
		s.logger.Debug("Publishing diagnostic",
			zap.Uint32("lsp.start.line", d.Range.Start.Line),
			zap.Uint32("lsp.start.char", d.Range.Start.Character),
			zap.String("message", d.Message))
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// unclosedDiagnostics returns one error per group that was never closed,
// ranged over its opening delimiter.
func unclosedDiagnostics(tree *texlsp.Tree) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, id := range tree.Unclosed() {
		g := tree.Group(id)

		end := g.Open
		end.Column++
		end.Offset++

		message := "unterminated group"
		if cmd := tree.Command(g.Command); cmd != nil {
			message = fmt.Sprintf("unterminated %s argument %d of %s", g.Kind, g.Index, cmd.Name)
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    spanToRange(g.Open, end),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  message,
		})
	}

	return diagnostics
}
