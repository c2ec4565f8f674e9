package completion

import (
	"sync"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/analysis"
)

// Request is one completion query against a document snapshot. The scanned
// tree and the located context are computed at most once per request, so
// every provider consulted for the request shares them.
type Request struct {
	Document texlsp.Document
	Line     uint32 // 0-based
	Char     uint32 // 0-based, UTF-16 code units

	opts texlsp.ScanOptions

	treeOnce sync.Once
	tree     *texlsp.Tree

	ctxOnce sync.Once
	ctx     analysis.Context
	found   bool
}

// NewRequest creates a request using the default scan options of the
// document's language.
func NewRequest(doc texlsp.Document, line, character uint32) *Request {
	return NewRequestWithOptions(doc, line, character, texlsp.DefaultScanOptions(doc.Language))
}

// NewRequestWithOptions creates a request with explicit scan options.
func NewRequestWithOptions(doc texlsp.Document, line, character uint32, opts texlsp.ScanOptions) *Request {
	opts.Language = doc.Language
	if opts.Filename == "" {
		opts.Filename = doc.URI
	}

	return &Request{
		Document: doc,
		Line:     line,
		Char:     character,
		opts:     opts,
	}
}

// Position returns the cursor as a lexer position.
func (r *Request) Position() lexer.Position {
	return analysis.PositionToLexer(r.Line, r.Char)
}

// Tree returns the structural view of the document.
func (r *Request) Tree() *texlsp.Tree {
	r.treeOnce.Do(func() {
		r.tree = texlsp.Scan(r.Document.Text, r.opts)
	})

	return r.tree
}

// Context returns the command argument enclosing the cursor, if any.
func (r *Request) Context() (analysis.Context, bool) {
	r.ctxOnce.Do(func() {
		r.ctx, r.found = analysis.Locate(r.Tree(), r.Position())
	})

	return r.ctx, r.found
}
