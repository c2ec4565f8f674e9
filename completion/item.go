// Package completion matches cursor contexts against provider triggers and
// produces completion items.
package completion

// ItemKind is a coarse classification of an item, mapped to the editor's
// icon set by the serving layer.
type ItemKind uint8

const (
	ItemKindText ItemKind = iota
	ItemKindKeyword
	ItemKindValue
	ItemKindColor
	ItemKindClass
	ItemKindEnumMember
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindKeyword:
		return "keyword"
	case ItemKindValue:
		return "value"
	case ItemKindColor:
		return "color"
	case ItemKindClass:
		return "class"
	case ItemKindEnumMember:
		return "enum-member"
	default:
		return "text"
	}
}

// Item is a single completion candidate. It has no identity beyond its label.
type Item struct {
	Label      string
	Detail     string // optional
	InsertText string // optional; the label is inserted when empty
	Kind       ItemKind
}

// Text returns the text to insert for the item.
func (i Item) Text() string {
	if i.InsertText != "" {
		return i.InsertText
	}

	return i.Label
}
