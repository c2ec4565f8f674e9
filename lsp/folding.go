package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Every closed group spanning more than one line folds as a region.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || !doc.Language.Valid() {
		return nil, nil
	}

	tree := texlsp.Scan(doc.Content, s.config.ScanOptions(doc.Language))

	return groupFoldingRanges(tree), nil
}

// groupFoldingRanges returns one range per multi-line closed group, in
// source order. The closing line stays visible.
func groupFoldingRanges(tree *texlsp.Tree) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange

	for i := range tree.Groups {
		g := &tree.Groups[i]
		if !g.Closed || g.Close.Line <= g.Open.Line+1 {
			continue
		}

		ranges = append(ranges, protocol.FoldingRange{
			StartLine: uint32(g.Open.Line - 1),  //nolint:gosec
			EndLine:   uint32(g.Close.Line - 2), //nolint:gosec
			Kind:      protocol.RegionFoldingRange,
		})
	}

	return ranges
}
