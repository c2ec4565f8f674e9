package completion

import (
	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/analysis"
)

// EntryTypeProviderName names the BibTeX entry type provider.
const EntryTypeProviderName = "entry-type"

var entryTypes = []Item{
	{Label: "article", Detail: "An article from a journal or magazine."},
	{Label: "book", Detail: "A book with an explicit publisher."},
	{Label: "booklet", Detail: "A printed and bound work without a named publisher."},
	{Label: "conference", Detail: "Legacy alias for inproceedings."},
	{Label: "inbook", Detail: "A part of a book, such as a chapter or a range of pages."},
	{Label: "incollection", Detail: "A part of a book having its own title."},
	{Label: "inproceedings", Detail: "An article in a conference proceedings."},
	{Label: "manual", Detail: "Technical documentation."},
	{Label: "mastersthesis", Detail: "A Master's thesis."},
	{Label: "misc", Detail: "Use this type when nothing else fits."},
	{Label: "online", Detail: "An online resource."},
	{Label: "phdthesis", Detail: "A PhD thesis."},
	{Label: "proceedings", Detail: "The proceedings of a conference."},
	{Label: "techreport", Detail: "A report published by a school or other institution."},
	{Label: "unpublished", Detail: "A document not formally published."},
	{Label: "string", Detail: "Defines a string macro."},
	{Label: "preamble", Detail: "Text added to the generated bibliography preamble."},
	{Label: "comment", Detail: "Text ignored by BibTeX."},
}

// EntryTypes returns the BibTeX entry type vocabulary.
func EntryTypes() []Item {
	items := make([]Item, len(entryTypes))
	for i, e := range entryTypes {
		e.Kind = ItemKindClass
		items[i] = e
	}

	return items
}

// EntryTypeProvider offers entry types while the cursor is on the "@type"
// header of a BibTeX declaration.
type EntryTypeProvider struct {
	generate Generator
}

// NewEntryTypeProvider creates the entry type provider.
func NewEntryTypeProvider() *EntryTypeProvider {
	return &EntryTypeProvider{generate: Static(EntryTypes()...)}
}

// Name returns the provider name.
func (p *EntryTypeProvider) Name() string { return EntryTypeProviderName }

// Items returns entry types when the cursor touches an entry header in a
// BibTeX document.
func (p *EntryTypeProvider) Items(req *Request) []Item {
	if req.Document.Language != texlsp.LanguageBibtex {
		return nil
	}

	if _, ok := analysis.EntryTypeAt(req.Tree(), req.Position()); !ok {
		return nil
	}

	return p.generate(analysis.Context{})
}
