package texlsp

// Document is a read-only snapshot of a source file.
type Document struct {
	URI      string
	Text     string
	Language Language
}

// NewDocument creates a document snapshot.
func NewDocument(uri, text string, lang Language) Document {
	return Document{URI: uri, Text: text, Language: lang}
}

// Scan scans the document with the default options for its language.
func (d Document) Scan() *Tree {
	return Scan(d.Text, DefaultScanOptions(d.Language))
}
