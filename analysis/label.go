package analysis

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/texlsp"
)

// LabelKind tells a label definition from a reference to it.
type LabelKind uint8

const (
	LabelDefinition LabelKind = iota
	LabelReference
)

// labelCommands maps the commands whose first brace argument holds label
// names, separated by commas as in \cref{a,b}.
var labelCommands = map[string]LabelKind{
	`\label`:      LabelDefinition,
	`\ref`:        LabelReference,
	`\eqref`:      LabelReference,
	`\pageref`:    LabelReference,
	`\autoref`:    LabelReference,
	`\nameref`:    LabelReference,
	`\vref`:       LabelReference,
	`\Vref`:       LabelReference,
	`\cref`:       LabelReference,
	`\Cref`:       LabelReference,
	`\cpageref`:   LabelReference,
	`\Cpageref`:   LabelReference,
	`\labelcref`:  LabelReference,
	`\crefrange`:  LabelReference,
	`\Crefrange`:  LabelReference,
	`\namecref`:   LabelReference,
	`\nameCref`:   LabelReference,
	`\lcnamecref`: LabelReference,
}

// Label is one label name inside a \label or \ref style argument.
type Label struct {
	Name    string
	Kind    LabelKind
	Command string
	Start   lexer.Position // first character of the name
	End     lexer.Position // just past the name
}

// Labels returns every label name of a LaTeX document in source order.
// Arguments containing nested groups or commands are skipped.
func Labels(text string, tree *texlsp.Tree) []Label {
	if tree == nil || tree.Language != texlsp.LanguageLatex {
		return nil
	}

	nested := make(map[int]bool)
	for c := range tree.Invocations() {
		if c.Parent >= 0 {
			nested[c.Parent] = true
		}
	}

	var labels []Label

	for c := range tree.Invocations() {
		kind, ok := labelCommands[c.Name]
		if !ok {
			continue
		}

		for _, id := range c.Groups {
			g := tree.Group(id)
			if g.Kind != texlsp.GroupBrace || g.Index != 0 {
				continue
			}

			if !nested[id] {
				labels = append(labels, groupLabels(text, g, c.Name, kind)...)
			}

			break
		}
	}

	return labels
}

// LabelAt returns the label name under pos. Both ends of the name count.
func LabelAt(text string, tree *texlsp.Tree, pos lexer.Position) (Label, bool) {
	if tree == nil || tree.Language != texlsp.LanguageLatex {
		return Label{}, false
	}

	ctx, ok := Locate(tree, pos)
	if !ok || ctx.Kind != texlsp.GroupBrace || ctx.Argument != 0 {
		return Label{}, false
	}

	kind, ok := labelCommands[ctx.Command]
	if !ok {
		return Label{}, false
	}

	for c := range tree.Invocations() {
		if c.Parent == ctx.Group {
			return Label{}, false
		}
	}

	for _, l := range groupLabels(text, tree.Group(ctx.Group), ctx.Command, kind) {
		if comparePosition(l.Start, pos) <= 0 && comparePosition(pos, l.End) <= 0 {
			return l, true
		}
	}

	return Label{}, false
}

// groupLabels splits the content of a closed brace group at commas and
// returns the trimmed, non-empty names with their positions.
func groupLabels(text string, g *texlsp.Group, command string, kind LabelKind) []Label {
	if g == nil || !g.Closed || len(g.Children) > 0 {
		return nil
	}

	end := g.Close.Offset - 1
	if end > len(text) || g.Open.Offset >= end {
		return nil
	}

	var (
		labels []Label
		cur    Label
		inName bool
	)

	flush := func() {
		if inName {
			cur.Name = text[cur.Start.Offset:cur.End.Offset]
			labels = append(labels, cur)
		}

		inName = false
	}

	pos := g.Open
	pos.Offset++
	pos.Column++

	for pos.Offset < end {
		r, size := utf8.DecodeRuneInString(text[pos.Offset:])

		next := pos
		next.Offset += size

		switch {
		case r == '\r' && next.Offset < len(text) && text[next.Offset] == '\n':
			// First half of a CRLF break; the '\n' moves to the next line.
		case r == '\r' || r == '\n':
			next.Line++
			next.Column = 1
		default:
			next.Column += utf16.RuneLen(r)
		}

		switch {
		case r == ',':
			flush()
		case unicode.IsSpace(r):
		default:
			if !inName {
				inName = true
				cur = Label{Kind: kind, Command: command, Start: pos}
			}

			cur.End = next
		}

		pos = next
	}

	flush()

	return labels
}
